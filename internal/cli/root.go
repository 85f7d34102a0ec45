// Package cli implements the veloxq command.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Config  string
}

// NewRootCommand creates the root command for the veloxq CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "veloxq",
		Short: "veloxq - fluent SELECT statements over ent",
		Long: `Print and run the veloxq example queries.

The examples query a small Star Wars film database. By default the demo
uses a private in-memory SQLite database that is created and seeded on
every run.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every statement")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "path to a YAML config file")

	cmd.AddCommand(NewSQLCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewListCommand())

	return cmd
}
