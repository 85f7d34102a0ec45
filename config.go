package veloxq

import "log/slog"

// config holds the options shared by a scope and the sequences it produces.
type config struct {
	sourceJoin  JoinKind
	aliasPrefix string
	logger      *slog.Logger
}

// Option configures query construction and execution.
type Option func(*config)

func newConfig(opts []Option) config {
	c := config{
		sourceJoin:  JoinFull,
		aliasPrefix: "__alias",
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// WithSourceJoin sets the join kind used to combine a root source declared
// after the first one. The join has no condition. Default is JoinFull.
func WithSourceJoin(kind JoinKind) Option {
	return func(c *config) {
		c.sourceJoin = kind
	}
}

// WithAliasPrefix sets the prefix of the aliases given to computed
// expressions in the select list. Default is "__alias".
func WithAliasPrefix(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.aliasPrefix = prefix
		}
	}
}

// WithLogger sets the logger used for statement execution logs.
// Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
