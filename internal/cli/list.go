package cli

import (
	"github.com/spf13/cobra"

	"resym/internal/config"
	"resym/internal/report"
	"resym/internal/symbol"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Config           string
	Target           string
	Kind             string
	Matched          bool
	UnmatchedStrings bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Run the pipeline and print a symbol listing",
		Long: `Run the matching pipeline and print the chosen projection.

By default every record is listed, matched rows first in original-address
order, then records only the recompilation knows about. --matched keeps
the paired rows only, --kind narrows to one classification, and
--unmatched-strings prints the string literals the source annotations
never claimed, one quoted value per line.

Example:
  resym list --config resym.yml --target LEGO1
  resym list --target LEGO1 --matched --kind function
  resym list --target LEGO1 --unmatched-strings`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "resym.yml", "path to project file")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target name from the project file (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only list one kind (function, data, pointer, string, vtable, float)")
	cmd.Flags().BoolVar(&opts.Matched, "matched", false, "only list matched rows")
	cmd.Flags().BoolVar(&opts.UnmatchedStrings, "unmatched-strings", false, "list unclaimed string literals instead")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	kind, err := symbol.ParseKind(opts.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --kind", err)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load project file", err)
	}

	res, err := RunPipeline(cfg, opts.Target)
	if err != nil {
		return err
	}

	if opts.UnmatchedStrings {
		report.WriteStrings(cmd.OutOrStdout(), res.Store.UnmatchedStrings())
		return nil
	}

	var rows []symbol.Match
	switch {
	case opts.Matched && kind != symbol.KindUnknown:
		rows = res.Store.MatchesByKind(kind)
	case opts.Matched:
		rows = res.Store.Matches()
	default:
		rows = res.Store.All()
		if kind != symbol.KindUnknown {
			rows = filterKind(rows, kind)
		}
	}
	report.WriteTable(cmd.OutOrStdout(), rows)
	return nil
}

func filterKind(rows []symbol.Match, kind symbol.Kind) []symbol.Match {
	out := rows[:0:0]
	for _, r := range rows {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
