package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskins/sparqline/internal/querytext"
)

// readQuery returns the query text for a command: from the file named by
// args[idx], or from stdin when the argument is absent or "-".
func readQuery(cmd *cobra.Command, args []string, idx int) (string, error) {
	if len(args) > idx && args[idx] != "-" {
		data, err := os.ReadFile(args[idx])
		if err != nil {
			return "", WrapExitError(ExitCommandError, fmt.Sprintf("%s: reading query file", ErrCodeNotFound), err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("%s: reading query from stdin", ErrCodeGeneric), err)
	}
	return string(data), nil
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// NewValidateCommand creates the "validate" command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate [file]",
		Short:         "Check a query for structural problems",
		Long:          "Validates query text read from a file (or stdin) and reports the first structural error plus any warnings.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(cmd, args, 0)
			if err != nil {
				return err
			}
			out := newFormatter(cmd, opts)

			res := querytext.Validate(query)
			if !res.Valid {
				code := mapValidationCode(res.Error)
				out.Error(code, res.Error, res.Warnings)
				return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, res.Error))
			}

			if opts.Format == "json" {
				return out.Success(res)
			}
			fmt.Fprintln(out.Writer, "✓ Query is valid")
			for _, w := range res.Warnings {
				fmt.Fprintf(out.Writer, "⚠ %s\n", w)
			}
			return nil
		},
	}
	return cmd
}

// NewAnalyzeCommand creates the "analyze" command.
func NewAnalyzeCommand(opts *RootOptions) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:           "analyze [file]",
		Short:         "Report query structure and complexity",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(cmd, args, 0)
			if err != nil {
				return err
			}
			out := newFormatter(cmd, opts)

			cfg := querytext.DefaultAnalyzerConfig()
			if threshold >= 0 {
				cfg.ComplexThreshold = threshold
			}
			a := querytext.AnalyzeWith(cfg, query)

			if opts.Format == "json" {
				return out.Success(a)
			}

			fmt.Fprintf(out.Writer, "Type:            %s\n", a.Type)
			fmt.Fprintf(out.Writer, "Valid:           %s\n", yesNo(a.Valid))
			fmt.Fprintf(out.Writer, "Variables:       %s\n", strings.Join(a.Variables, ", "))
			fmt.Fprintf(out.Writer, "Triple patterns: %d\n", a.TriplePatterns)
			fmt.Fprintf(out.Writer, "Features:        %s\n", featureList(a.Features))
			fmt.Fprintf(out.Writer, "Score:           %d (threshold %d)\n", a.Score, cfg.ComplexThreshold)
			fmt.Fprintf(out.Writer, "Complex:         %s\n", yesNo(a.Complex))
			return nil
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", -1, "complexity threshold override (-1 keeps the default)")
	return cmd
}

// NewFmtCommand creates the "fmt" command.
func NewFmtCommand(opts *RootOptions) *cobra.Command {
	var write bool
	var indent int

	cmd := &cobra.Command{
		Use:           "fmt [file]",
		Short:         "Pretty-print a query",
		Long:          "Re-serializes query text with one clause keyword per line and brace-based indentation. Idempotent.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(cmd, args, 0)
			if err != nil {
				return err
			}
			out := newFormatter(cmd, opts)

			cfg := querytext.DefaultFormatterConfig()
			if indent > 0 {
				cfg.IndentWidth = indent
			}
			formatted := querytext.FormatWith(cfg, query)

			if write {
				if len(args) == 0 || args[0] == "-" {
					return NewExitError(ExitCommandError, ErrCodeGeneric+": --write requires a file argument")
				}
				if err := os.WriteFile(args[0], []byte(formatted+"\n"), 0644); err != nil {
					return WrapExitError(ExitCommandError, ErrCodeGeneric+": writing formatted query", err)
				}
				out.VerboseLog("Rewrote %s", args[0])
				return nil
			}
			return out.Success(formatted)
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "rewrite the input file in place")
	cmd.Flags().IntVar(&indent, "indent", 0, "spaces per indent level (0 keeps the default)")
	return cmd
}

// NewPrefixCommand creates the "prefix" command.
func NewPrefixCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "prefix <name> <uri> [file]",
		Short:         "Insert a PREFIX declaration",
		Long:          "Inserts PREFIX <name>: <uri> after the last existing PREFIX line. A query that already declares the prefix passes through unchanged.",
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(cmd, args, 2)
			if err != nil {
				return err
			}
			out := newFormatter(cmd, opts)
			return out.Success(querytext.AddPrefix(args[0], args[1], query))
		},
	}
	return cmd
}

// NewLimitCommand creates the "limit" command.
func NewLimitCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "limit [file]",
		Short:         "Append LIMIT 100 when the query has no LIMIT",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := readQuery(cmd, args, 0)
			if err != nil {
				return err
			}
			out := newFormatter(cmd, opts)
			return out.Success(querytext.AddLimit(query))
		},
	}
	return cmd
}

// NewScaffoldCommand creates the "scaffold" command.
func NewScaffoldCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scaffold",
		Short:         "Print a minimal boilerplate query",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts)
			return out.Success(querytext.AddBasicStructure(""))
		},
	}
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// featureList renders the set feature flags as a sorted list, or "none".
func featureList(f querytext.Features) string {
	var names []string
	for name, set := range map[string]bool{
		"aggregate": f.Aggregate,
		"group-by":  f.GroupBy,
		"optional":  f.Optional,
		"subquery":  f.Subquery,
		"union":     f.Union,
	} {
		if set {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
