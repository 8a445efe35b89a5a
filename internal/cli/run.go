package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/engine"
	"github.com/roach88/thermoguard/internal/reducer"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Email          string
	Password       string
	TriggerFailure bool
	Duration       time.Duration
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the live simulation",
		Long: `Log in as a demo user and run the simulation in real time, one tick per
simulation.interval, until interrupted or --duration elapses. New alerts and
device status changes are logged as they happen; the dashboard is printed
on exit.

Example:
  thermoguard run --trigger-failure
  thermoguard run --as 7eleven@demo.com --duration 1m --config thermoguard.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "as", DefaultEmail, "login email")
	cmd.Flags().StringVar(&opts.Password, "password", DefaultPassword, "login password")
	cmd.Flags().BoolVar(&opts.TriggerFailure, "trigger-failure", false, "start the scripted failure after login")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	return cmd
}

func runLive(cmd *cobra.Command, opts *RunOptions) error {
	formatter := newFormatter(cmd, opts.RootOptions)
	cfg := opts.Config

	file, err := loadSeedFile(cfg)
	if err != nil {
		_ = formatter.Error(CodeSeed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load seed", err)
	}

	engOpts := []engine.EngineOption{
		engine.WithStepper(simulatorFor(cfg, 0)),
		engine.WithInterval(cfg.Simulation.Interval),
		engine.WithRearmOnReset(cfg.Simulation.RearmOnReset),
	}
	j, err := openJournal(cfg)
	if err != nil {
		_ = formatter.Error(CodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	if j != nil {
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				slog.Error("error closing journal", "error", closeErr)
			}
		}()
		engOpts = append(engOpts, engine.WithJournal(j))
	}

	eng := engine.New(file.Build(time.Now().UTC()), engOpts...)

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	if opts.Duration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, opts.Duration)
		defer stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	updates, unsubscribe := eng.Subscribe(16)
	defer unsubscribe()

	runErr := make(chan error, 1)
	go func() {
		runErr <- eng.Run(ctx)
	}()

	login, err := eng.Login(ctx, opts.Email, opts.Password)
	if err != nil {
		cancel()
		<-runErr
		return sessionError(formatter, err)
	}
	slog.Info("logged in", "user", login.User.Email, "role", login.User.Role, "session_id", eng.SessionID())

	if opts.TriggerFailure {
		if _, err := eng.Dispatch(ctx, reducer.TriggerDemoFailure{}); err != nil {
			slog.Warn("trigger failure", "error", err)
		}
	}

	fmt.Fprintln(formatter.GetErrWriter(), "Simulation running. Press Ctrl-C to stop.")
	watch(updates, eng.Snapshot())

	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "engine error", err)
	}
	slog.Info("engine stopped gracefully")

	final := eng.Snapshot()
	user := login.User
	if final.CurrentUser != nil {
		user = *final.CurrentUser
	}
	return formatter.Success(NewSessionView(eng.SessionID(), user, 0, int(eng.Seq()), final, time.Now().UTC()))
}

// watch logs new alerts and device status changes until updates closes.
func watch(updates <-chan domain.Snapshot, prev domain.Snapshot) {
	for s := range updates {
		for _, line := range changes(prev, s) {
			slog.Info(line.msg, line.args...)
		}
		prev = s
	}
}

type change struct {
	msg  string
	args []any
}

// changes lists what moved between two snapshots: new alerts, new jobs
// and device status transitions.
func changes(prev, next domain.Snapshot) []change {
	var out []change

	for _, d := range next.Devices {
		old, _, ok := prev.Device(d.ID)
		if ok && old.Status != d.Status {
			out = append(out, change{"device status changed", []any{
				"device", d.ID, "from", old.Status, "to", d.Status, "temperature", d.Temperature,
			}})
		}
	}
	for _, a := range next.Alerts {
		if _, _, ok := prev.Alert(a.ID); !ok {
			out = append(out, change{"alert raised", []any{
				"alert", a.ID, "device", a.DeviceID, "severity", a.Severity, "temperature", a.Temperature,
			}})
		}
	}
	for _, j := range next.Jobs {
		if _, _, ok := prev.Job(j.ID); !ok {
			out = append(out, change{"job created", []any{
				"job", j.ID, "type", j.Type, "vendor", j.VendorName,
			}})
		}
	}
	return out
}
