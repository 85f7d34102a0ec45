package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/veloxq/dialect/sql"
	"github.com/syssam/veloxq/examples/starwars"
)

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo [example...]",
		Short: "Run the example queries",
		Long: `Open the configured database, create and seed the example schema and
run the example queries concurrently.

The database is read from the config file and the VELOXQ_DRIVER and
VELOXQ_DSN environment variables.

Example:
  veloxq demo
  VELOXQ_DRIVER=postgres VELOXQ_DSN=postgres://localhost/starwars veloxq demo film_casts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(rootOpts.Config)
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg, rootOpts.Verbose, args)
		},
	}
	return cmd
}

func runDemo(ctx context.Context, w io.Writer, cfg Config, verbose bool, only []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	examples, err := selectExamples(only)
	if err != nil {
		return err
	}
	drv, err := sql.OpenRecorder(cfg.Driver, cfg.DSN,
		sql.WithSlowThreshold(cfg.SlowThreshold),
		sql.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := drv.Close(); err != nil {
			slog.Error("close database", "error", err)
		}
	}()
	if cfg.Seed {
		if err := starwars.Setup(ctx, drv); err != nil {
			return err
		}
	}

	outputs := make([]starwars.Output, len(examples))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i, ex := range examples {
		eg.Go(func() error {
			out, err := ex.Run(ctx, drv)
			if err != nil {
				return fmt.Errorf("%s: %w", ex.Name, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, ex := range examples {
		writeOutput(w, ex.Name, outputs[i])
	}
	fmt.Fprintf(w, "-- %s\n", drv.Summary())
	if verbose {
		for _, st := range drv.Statements() {
			fmt.Fprintf(w, "-- %s calls=%d mean=%s last=%s\n", st.Query, st.Calls, st.Mean(), st.LastID)
		}
	}
	return nil
}

func writeOutput(w io.Writer, name string, out starwars.Output) {
	fmt.Fprintf(w, "== %s (%d rows)\n", name, len(out.Rows))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	title := cases.Title(language.English)
	headers := make([]string, len(out.Columns))
	for i, c := range out.Columns {
		headers[i] = title.String(strings.ReplaceAll(c, "_", " "))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range out.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
	fmt.Fprintln(w)
}
