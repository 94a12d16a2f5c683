package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskins/sparqline/internal/dashboard"
	"github.com/haskins/sparqline/internal/sparql"
	"github.com/haskins/sparqline/internal/stats"
)

// NewDashboardCommand creates the "dashboard" command group.
func NewDashboardCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Manage and run saved dashboards",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "sparqline.db", "dashboard store path")

	cmd.AddCommand(newDashboardImportCommand(opts, &dbPath))
	cmd.AddCommand(newDashboardListCommand(opts, &dbPath))
	cmd.AddCommand(newDashboardShowCommand(opts, &dbPath))
	cmd.AddCommand(newDashboardDeleteCommand(opts, &dbPath))
	cmd.AddCommand(newDashboardRunCommand(opts, &dbPath))
	return cmd
}

// openStore opens the dashboard store or returns a command error.
func openStore(dbPath string) (*dashboard.Store, error) {
	s, err := dashboard.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeStore+": opening dashboard store", err)
	}
	return s, nil
}

func newDashboardImportCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "import <dir>",
		Short:         "Import dashboard definitions from CUE files",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts)

			result, errs := LoadDefinitions(args[0], LoadModeCollectAll)
			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(out.Writer, e.Error())
				}
				out.Error(ErrCodeGeneric, fmt.Sprintf("import failed with %d error(s)", len(errs)), nil)
				return NewExitError(ExitFailure, "import failed")
			}
			out.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, args[0])

			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			for i := range result.Dashboards {
				d := &result.Dashboards[i]
				out.VerboseLog("Importing dashboard: %s", d.Name)
				if existing, err := store.GetDashboard(cmd.Context(), d.Name); err == nil {
					// Re-import updates in place.
					d.ID = existing.ID
					d.CreatedAt = existing.CreatedAt
				}
				if err := store.SaveDashboard(cmd.Context(), d); err != nil {
					out.Error(ErrCodeStore, fmt.Sprintf("saving dashboard %q: %v", d.Name, err), nil)
					return WrapExitError(ExitFailure, ErrCodeStore+": import failed", err)
				}
			}

			if opts.Format == "json" {
				return out.Success(result.Dashboards)
			}
			fmt.Fprintf(out.Writer, "✓ Imported %d dashboard(s) from %d file(s)\n", len(result.Dashboards), result.FileCount)
			return nil
		},
	}
}

func newDashboardListCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved dashboards",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts)

			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.ListDashboards(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeStore+": listing dashboards", err)
			}

			if opts.Format == "json" {
				return out.Success(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out.Writer, "No dashboards saved")
				return nil
			}
			for _, d := range list {
				fmt.Fprintf(out.Writer, "%s  (%d panel(s))  %s\n", d.Name, len(d.Panels), d.Description)
			}
			return nil
		},
	}
}

func newDashboardShowCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "show <name>",
		Short:         "Show one dashboard and its panels",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts)

			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.GetDashboard(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, dashboard.ErrNotFound) {
					out.Error(ErrCodeNotFound, fmt.Sprintf("dashboard %q not found", args[0]), nil)
					return NewExitError(ExitFailure, ErrCodeNotFound+": dashboard not found")
				}
				return WrapExitError(ExitCommandError, ErrCodeStore+": reading dashboard", err)
			}

			if opts.Format == "json" {
				return out.Success(d)
			}
			fmt.Fprintf(out.Writer, "%s - %s\n", d.Name, d.Description)
			for _, p := range d.Panels {
				fmt.Fprintf(out.Writer, "  [%d] %s (%s) %s\n", p.Position, p.Title, p.Kind, p.Endpoint)
				fmt.Fprintf(out.Writer, "      %s\n", p.Query)
			}
			return nil
		},
	}
}

func newDashboardDeleteCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a dashboard",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts)

			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteDashboard(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, dashboard.ErrNotFound) {
					out.Error(ErrCodeNotFound, fmt.Sprintf("dashboard %q not found", args[0]), nil)
					return NewExitError(ExitFailure, ErrCodeNotFound+": dashboard not found")
				}
				return WrapExitError(ExitCommandError, ErrCodeStore+": deleting dashboard", err)
			}

			if opts.Format == "json" {
				return out.Success(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(out.Writer, "✓ Deleted dashboard %q\n", args[0])
			return nil
		},
	}
}

// PanelReport is one panel's execution outcome within a dashboard run.
type PanelReport struct {
	Panel   string              `json:"panel"`
	Kind    dashboard.PanelKind `json:"kind"`
	Columns []string            `json:"columns,omitempty"`
	Rows    int                 `json:"rows"`
	Elapsed time.Duration       `json:"elapsed"`
	Summary *stats.Summary      `json:"summary,omitempty"`
	Trend   *stats.Line         `json:"trend,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func newDashboardRunCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:           "run <name>",
		Short:         "Execute every panel of a dashboard",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts)

			store, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.GetDashboard(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, dashboard.ErrNotFound) {
					out.Error(ErrCodeNotFound, fmt.Sprintf("dashboard %q not found", args[0]), nil)
					return NewExitError(ExitFailure, ErrCodeNotFound+": dashboard not found")
				}
				return WrapExitError(ExitCommandError, ErrCodeStore+": reading dashboard", err)
			}

			client := sparql.NewClient(sparql.ClientConfig{Timeout: timeout})
			reports := make([]PanelReport, 0, len(d.Panels))
			failed := 0
			for _, p := range d.Panels {
				out.VerboseLog("Running panel: %s", p.Title)
				reports = append(reports, runPanel(cmd, client, p))
				if reports[len(reports)-1].Error != "" {
					failed++
				}
			}

			if opts.Format == "json" {
				if err := out.Success(reports); err != nil {
					return err
				}
			} else {
				printPanelReports(out, reports)
			}
			if failed > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d panel(s) failed", failed))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	return cmd
}

// runPanel executes one panel and derives the numeric extras its kind
// calls for: a summary for stat panels, a trendline for line panels.
// Both read the last result column, where projected measures end up.
func runPanel(cmd *cobra.Command, client *sparql.Client, p dashboard.Panel) PanelReport {
	report := PanelReport{Panel: p.Title, Kind: p.Kind}

	rs, err := client.Execute(cmd.Context(), p.Endpoint, p.Query)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Columns = rs.Columns
	report.Rows = len(rs.Rows)
	report.Elapsed = rs.Elapsed

	if len(rs.Columns) == 0 {
		return report
	}
	values := stats.ParseColumn(rs.Rows, len(rs.Columns)-1)

	switch p.Kind {
	case dashboard.PanelStat:
		s := stats.Summarize(values)
		report.Summary = &s
	case dashboard.PanelLine:
		xs := make([]float64, len(values))
		for i := range xs {
			xs[i] = float64(i)
		}
		if line, err := stats.LinearRegression(xs, values); err == nil {
			report.Trend = &line
		}
	}
	return report
}

func printPanelReports(out *OutputFormatter, reports []PanelReport) {
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(out.Writer, "✗ %s: %s\n", r.Panel, r.Error)
			continue
		}
		fmt.Fprintf(out.Writer, "✓ %s: %d row(s) in %s\n", r.Panel, r.Rows, r.Elapsed)
		if r.Summary != nil {
			fmt.Fprintf(out.Writer, "    min %.4g  max %.4g  mean %.4g  stddev %.4g\n",
				r.Summary.Min, r.Summary.Max, r.Summary.Mean, r.Summary.Stddev)
		}
		if r.Trend != nil {
			fmt.Fprintf(out.Writer, "    trend: slope %.4g  intercept %.4g  r² %.4g\n",
				r.Trend.Slope, r.Trend.Intercept, r.Trend.R2)
		}
	}
}
