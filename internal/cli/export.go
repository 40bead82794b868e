package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"resym/internal/config"
	"resym/internal/report"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Config string
	Target string
	Out    string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run the pipeline and write the SQLite export",
		Long: `Run the matching pipeline and write the SQLite export only.

The export holds the match table and the per-address option flags in
plain SQL, for host tooling that wants to query the address map without
parsing the JSON report.

Example:
  resym export --config resym.yml --target LEGO1 --out matches.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "resym.yml", "path to project file")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target name from the project file (required)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "path of the SQLite database to write (required)")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load project file", err)
	}

	res, err := RunPipeline(cfg, opts.Target)
	if err != nil {
		return err
	}

	rep := report.Build(res.Store, opts.Target, report.NewRunID(), time.Now().UTC(), res.Signatures)
	if err := report.Export(opts.Out, rep); err != nil {
		return WrapExitError(ExitCommandError, "failed to write SQLite export", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported %d symbols to %s\n", len(rep.Rows), opts.Out)
	return nil
}
