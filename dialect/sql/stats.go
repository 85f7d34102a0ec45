package sql

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"entgo.io/ent/dialect"

	"github.com/syssam/veloxq"
)

// DefaultSlowThreshold is the slow statement threshold of a Recorder.
const DefaultSlowThreshold = 100 * time.Millisecond

// DefaultHistory is the number of executions a Recorder remembers.
const DefaultHistory = 256

// Execution is one recorded statement execution.
type Execution struct {
	// ID is the veloxq execution id of the traversal that ran the
	// statement, or "" for statements run outside of a veloxq sequence.
	ID       string
	Query    string
	Exec     bool
	Duration time.Duration
	Err      error
}

// StatementStats aggregates the executions of one statement text.
type StatementStats struct {
	Query  string
	Calls  int64
	Errors int64
	Slow   int64
	Total  time.Duration
	Max    time.Duration
	// LastID is the execution id of the latest veloxq traversal that ran
	// the statement.
	LastID string
}

// Mean returns the mean duration of the statement.
func (s StatementStats) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Summary totals the statements recorded by a Recorder.
type Summary struct {
	Queries    int64
	Execs      int64
	Statements int
	Slow       int64
	Errors     int64
	Total      time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("queries=%d execs=%d statements=%d slow=%d errors=%d duration=%s",
		s.Queries, s.Execs, s.Statements, s.Slow, s.Errors, s.Total)
}

// Recorder wraps an ent driver and records every statement it runs, by
// statement text and by veloxq execution id. Statements run inside a
// transaction started with Tx are not recorded.
type Recorder struct {
	dialect.Driver
	logger  *slog.Logger
	slow    time.Duration
	history int

	mu     sync.Mutex
	byText map[string]*StatementStats
	byID   map[string]Execution
	ids    []string
	sum    Summary
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSlowThreshold sets the duration above which a statement is logged at
// warn level and counted as slow.
func WithSlowThreshold(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		if d > 0 {
			r.slow = d
		}
	}
}

// WithLogger sets the logger statements are logged to. Every statement is
// logged at debug level.
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithHistory sets the number of executions kept for Execution lookups.
func WithHistory(n int) RecorderOption {
	return func(r *Recorder) {
		r.history = max(n, 0)
	}
}

// NewRecorder wraps drv.
//
//	drv, _ := sql.Open("sqlite", sql.MemoryDSN("demo"))
//	rec := sql.NewRecorder(drv, sql.WithSlowThreshold(50*time.Millisecond))
//	rows, err := q.Collect(ctx, rec)
//	fmt.Println(rec.Summary())
func NewRecorder(drv dialect.Driver, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		Driver:  drv,
		logger:  slog.Default(),
		slow:    DefaultSlowThreshold,
		history: DefaultHistory,
		byText:  make(map[string]*StatementStats),
		byID:    make(map[string]Execution),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Query runs a query on the wrapped driver and records it.
func (r *Recorder) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := r.Driver.Query(ctx, query, args, v)
	r.record(ctx, Execution{Query: query, Duration: time.Since(start), Err: err})
	return err
}

// Exec runs a statement on the wrapped driver and records it.
func (r *Recorder) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := r.Driver.Exec(ctx, query, args, v)
	r.record(ctx, Execution{Query: query, Exec: true, Duration: time.Since(start), Err: err})
	return err
}

func (r *Recorder) record(ctx context.Context, e Execution) {
	e.ID, _ = veloxq.ExecutionID(ctx)
	slow := e.Duration > r.slow

	r.mu.Lock()
	st, ok := r.byText[e.Query]
	if !ok {
		st = &StatementStats{Query: e.Query}
		r.byText[e.Query] = st
		r.sum.Statements++
	}
	st.Calls++
	st.Total += e.Duration
	st.Max = max(st.Max, e.Duration)
	if e.Exec {
		r.sum.Execs++
	} else {
		r.sum.Queries++
	}
	r.sum.Total += e.Duration
	if e.Err != nil {
		st.Errors++
		r.sum.Errors++
	}
	if slow {
		st.Slow++
		r.sum.Slow++
	}
	if e.ID != "" {
		st.LastID = e.ID
		r.remember(e)
	}
	r.mu.Unlock()

	attrs := []any{"id", e.ID, "duration", e.Duration, "query", e.Query}
	switch {
	case e.Err != nil:
		r.logger.DebugContext(ctx, "statement failed", append(attrs, "error", e.Err)...)
	case slow:
		r.logger.WarnContext(ctx, "slow statement", attrs...)
	default:
		r.logger.DebugContext(ctx, "statement", attrs...)
	}
}

// remember keeps e for Execution lookups, evicting the oldest execution
// once the history is full. r.mu must be held.
func (r *Recorder) remember(e Execution) {
	if r.history == 0 {
		return
	}
	if _, ok := r.byID[e.ID]; !ok {
		if len(r.ids) == r.history {
			delete(r.byID, r.ids[0])
			r.ids = r.ids[1:]
		}
		r.ids = append(r.ids, e.ID)
	}
	r.byID[e.ID] = e
}

// Execution returns the statement run by the veloxq traversal with the
// given execution id.
func (r *Recorder) Execution(id string) (Execution, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	return e, ok
}

// Statements returns the recorded statements, slowest total first.
func (r *Recorder) Statements() []StatementStats {
	r.mu.Lock()
	stats := make([]StatementStats, 0, len(r.byText))
	for _, st := range r.byText {
		stats = append(stats, *st)
	}
	r.mu.Unlock()
	slices.SortFunc(stats, func(a, b StatementStats) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Query, b.Query)
	})
	return stats
}

// Summary returns the totals of the recorded statements.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sum
}

// Reset forgets every recorded statement.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.byText)
	clear(r.byID)
	r.ids = nil
	r.sum = Summary{}
}

var _ veloxq.Executor = (*Recorder)(nil)

// OpenRecorder opens the database called name and wraps it with a
// Recorder.
func OpenRecorder(name, source string, opts ...RecorderOption) (*Recorder, error) {
	drv, err := Open(name, source)
	if err != nil {
		return nil, err
	}
	return NewRecorder(drv, opts...), nil
}
