package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskins/sparqline/internal/querytext"
	"github.com/haskins/sparqline/internal/sparql"
)

// NewRunCommand creates the "run" command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:           "run <endpoint> [file]",
		Short:         "Execute a query against a SPARQL endpoint",
		Long:          "Validates the query, sends it to the endpoint, and prints the result table. Invalid queries are rejected before anything goes on the wire.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(cmd, args, 1)
			if err != nil {
				return err
			}
			out := newFormatter(cmd, opts)

			if res := querytext.Validate(query); !res.Valid {
				code := mapValidationCode(res.Error)
				out.Error(code, res.Error, nil)
				return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, res.Error))
			}

			client := sparql.NewClient(sparql.ClientConfig{Timeout: timeout})
			out.VerboseLog("Executing against %s", args[0])

			rs, err := client.Execute(cmd.Context(), args[0], query)
			if err != nil {
				out.Error(ErrCodeEndpoint, err.Error(), nil)
				return WrapExitError(ExitFailure, ErrCodeEndpoint+": query execution failed", err)
			}

			if opts.Format == "json" {
				return out.Success(rs)
			}
			printResultSet(out, rs)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	return cmd
}

// printResultSet renders a result table in text format.
func printResultSet(out *OutputFormatter, rs *sparql.ResultSet) {
	w := tabwriter.NewWriter(out.Writer, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(rs.Columns, "\t"))
	for _, row := range rs.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	fmt.Fprintf(out.Writer, "%d row(s) in %s\n", len(rs.Rows), rs.Elapsed)
}
