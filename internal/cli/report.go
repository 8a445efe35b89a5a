package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/thermoguard/internal/stats"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	SimulateOptions
	Out string
}

// ReportResult describes a written workbook.
type ReportResult struct {
	Path      string          `json:"path"`
	SessionID string          `json:"session_id"`
	Sheets    []string        `json:"sheets"`
	Dashboard stats.Dashboard `json:"dashboard"`
}

// RenderText implements TextRenderer.
func (r ReportResult) RenderText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "Report written: %s\n", r.Path)
	fmt.Fprintf(w, "Session: %s\n", r.SessionID)
	if verbose {
		for _, s := range r.Sheets {
			fmt.Fprintf(w, "  sheet %s\n", s)
		}
	}
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{SimulateOptions: SimulateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a virtual session and export it as an Excel workbook",
		Long: `Run a virtual session like simulate, then write the full final state
(summary, devices, alerts, jobs, notifications) to an .xlsx workbook.

The workbook covers every customer regardless of the login used.

Example:
  thermoguard report --ticks 12 --trigger-failure --out incident.xlsx`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "as", DefaultEmail, "login email")
	cmd.Flags().StringVar(&opts.Password, "password", DefaultPassword, "login password")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 10, "number of ticks to run")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "simulator seed (0 uses the config seed)")
	cmd.Flags().BoolVar(&opts.TriggerFailure, "trigger-failure", false, "start the scripted failure before ticking")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "thermoguard-report.xlsx", "output workbook path")

	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions) error {
	formatter := newFormatter(cmd, opts.RootOptions)

	if opts.Ticks < 0 {
		return NewExitError(ExitCommandError, "--ticks must not be negative")
	}

	out, err := RunVirtualSession(commandContext(cmd), opts.Config, SessionParams{
		Email:          opts.Email,
		Password:       opts.Password,
		Ticks:          opts.Ticks,
		Seed:           opts.Seed,
		TriggerFailure: opts.TriggerFailure,
	})
	if err != nil {
		return sessionError(formatter, err)
	}

	formatter.VerboseLog("writing workbook to %s", opts.Out)
	if err := stats.SaveWorkbook(opts.Out, out.Final, out.Now); err != nil {
		_ = formatter.Error(CodeReport, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}

	return formatter.Success(ReportResult{
		Path:      opts.Out,
		SessionID: out.SessionID,
		Sheets:    []string{stats.SheetSummary, stats.SheetDevices, stats.SheetAlerts, stats.SheetJobs, stats.SheetNotifications},
		Dashboard: stats.Compute(out.Final, out.Now),
	})
}
