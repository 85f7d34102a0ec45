package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/veloxq"
	"github.com/syssam/veloxq/dialect/sql"
	"github.com/syssam/veloxq/examples/starwars"
)

// SQLOptions holds flags for the sql command.
type SQLOptions struct {
	*RootOptions
	Dialect string
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql [example...]",
		Short: "Print the SQL of the example queries",
		Long: `Print the SQL statements of the example queries for one dialect.

Without arguments every example is printed.

Example:
  veloxq sql --dialect postgres
  veloxq sql --dialect mysql role_counts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSQL(cmd.OutOrStdout(), opts.Dialect, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Dialect, "dialect", "d", sql.Postgres, "SQL dialect (postgres|mysql|sqlite)")

	return cmd
}

func printSQL(w io.Writer, name string, only []string) error {
	_, d, err := sql.Resolve(name)
	if err != nil {
		return err
	}
	examples, err := selectExamples(only)
	if err != nil {
		return err
	}
	for _, ex := range examples {
		fmt.Fprintf(w, "-- %s\n", ex.Name)
		query, args, err := ex.Statement.SQL(d)
		switch {
		case veloxq.IsUnsupported(err):
			fmt.Fprintf(w, "-- %v\n\n", err)
		case err != nil:
			return fmt.Errorf("%s: %w", ex.Name, err)
		default:
			fmt.Fprintf(w, "%s;\n-- args: %v\n\n", query, args)
		}
	}
	return nil
}

func selectExamples(names []string) ([]starwars.Example, error) {
	examples := starwars.Examples()
	if len(names) == 0 {
		return examples, nil
	}
	var selected []starwars.Example
	for _, name := range names {
		i := slices.IndexFunc(examples, func(ex starwars.Example) bool { return ex.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown example %q (known: %s)", name, strings.Join(exampleNames(), ", "))
		}
		selected = append(selected, examples[i])
	}
	return selected, nil
}

func exampleNames() []string {
	var names []string
	for _, ex := range starwars.Examples() {
		names = append(names, ex.Name)
	}
	return names
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the example queries",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range exampleNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
