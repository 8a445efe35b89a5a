package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/thermoguard/internal/harness"
)

// ScenarioRun is the outcome of one scenario file.
type ScenarioRun struct {
	File   string          `json:"file"`
	Name   string          `json:"name"`
	Result *harness.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Passed reports whether the scenario loaded, ran and held.
func (r ScenarioRun) Passed() bool {
	return r.Error == "" && r.Result != nil && r.Result.Pass
}

// ScenarioReport aggregates scenario runs.
type ScenarioReport struct {
	Runs   []ScenarioRun `json:"runs"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
}

// RenderText implements TextRenderer.
func (r ScenarioReport) RenderText(w io.Writer, verbose bool) {
	for _, run := range r.Runs {
		status := "PASS"
		if !run.Passed() {
			status = "FAIL"
		}
		name := run.Name
		if name == "" {
			name = run.File
		}
		fmt.Fprintf(w, "%s  %s\n", status, name)

		if run.Error != "" {
			fmt.Fprintf(w, "      %s\n", run.Error)
			continue
		}
		for _, msg := range run.Result.Errors {
			fmt.Fprintf(w, "      %s\n", msg)
		}
		if verbose {
			fmt.Fprintf(w, "      session %s, %d commands\n", run.Result.SessionID, len(run.Result.Trace))
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed\n", r.Passed, r.Failed)
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario <file.yaml>...",
		Short: "Run scripted scenarios and check their assertions",
		Long: `Run each scenario file against a fresh engine with a frozen clock and an
in-memory journal, then evaluate its step expectations and assertions.

Exits 1 if any scenario fails.

Example:
  thermoguard scenario ./scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, rootOpts, args)
		},
	}
	return cmd
}

func runScenarios(cmd *cobra.Command, opts *RootOptions, files []string) error {
	formatter := newFormatter(cmd, opts)

	var report ScenarioReport
	for _, file := range files {
		formatter.VerboseLog("running %s", file)
		run := runScenarioFile(file)
		if run.Passed() {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Runs = append(report.Runs, run)
	}

	if err := formatter.Success(report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", report.Failed, len(files)))
	}
	return nil
}

func runScenarioFile(file string) ScenarioRun {
	run := ScenarioRun{File: file}

	sc, err := harness.LoadScenario(file)
	if err != nil {
		run.Error = err.Error()
		return run
	}
	run.Name = sc.Name

	result, err := harness.Run(sc)
	if err != nil {
		run.Error = err.Error()
		return run
	}
	run.Result = result
	return run
}
