package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"resym/internal/config"
	"resym/internal/report"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Config string
	Target string
	JSON   string
	SQLite string
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the full matching pipeline for one target",
		Long: `Run the full matching pipeline for one target.

Loads the symbol listings named in the project file, scans the target's
source tree for annotation markers, matches every marker through the
engine, and prints a summary. Individual match failures are logged and
counted, never fatal; the run only aborts on unreadable inputs or
inconsistent signature data.

Example:
  resym match --config resym.yml --target LEGO1
  resym match --target LEGO1 --json report.json --sqlite matches.db -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "resym.yml", "path to project file")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target name from the project file (required)")
	cmd.Flags().StringVar(&opts.JSON, "json", "", "write the JSON report here (overrides the project file)")
	cmd.Flags().StringVar(&opts.SQLite, "sqlite", "", "write the SQLite export here (overrides the project file)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runMatch(opts *MatchOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load project file", err)
	}

	res, err := RunPipeline(cfg, opts.Target)
	if err != nil {
		return err
	}

	rep := report.Build(res.Store, opts.Target, report.NewRunID(), time.Now().UTC(), res.Signatures)
	report.WriteSummary(cmd.OutOrStdout(), rep.Summary)

	jsonPath := opts.JSON
	if jsonPath == "" {
		jsonPath = cfg.Report.JSON
	}
	if jsonPath != "" {
		if err := writeJSONReport(jsonPath, rep); err != nil {
			return WrapExitError(ExitCommandError, "failed to write JSON report", err)
		}
		slog.Info("wrote json report", "path", jsonPath)
	}

	sqlitePath := opts.SQLite
	if sqlitePath == "" {
		sqlitePath = cfg.Report.SQLite
	}
	if sqlitePath != "" {
		if err := report.Export(sqlitePath, rep); err != nil {
			return WrapExitError(ExitCommandError, "failed to write SQLite export", err)
		}
		slog.Info("wrote sqlite export", "path", sqlitePath)
	}

	return nil
}

func writeJSONReport(path string, rep *report.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteJSON(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
