package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/thermoguard/internal/config"
	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/engine"
	"github.com/roach88/thermoguard/internal/journal"
	"github.com/roach88/thermoguard/internal/reducer"
	"github.com/roach88/thermoguard/internal/seed"
	"github.com/roach88/thermoguard/internal/simulation"
	"github.com/roach88/thermoguard/internal/testutil"
)

// Default demo login.
const (
	DefaultEmail    = "admin@demo.com"
	DefaultPassword = "password123"
)

// virtualIdle keeps the engine's own timer quiet while ticks are driven
// manually.
const virtualIdle = 24 * time.Hour

// SessionParams describe a session driven on a virtual clock.
type SessionParams struct {
	Email          string
	Password       string
	Ticks          int
	Seed           uint64
	TriggerFailure bool
	Start          time.Time
}

// SessionOutcome is the state at the end of a virtual session.
type SessionOutcome struct {
	SessionID string
	User      domain.User
	Applied   int
	Final     domain.Snapshot
	Now       time.Time
}

// loadSeedFile reads the configured dataset, or the embedded default.
func loadSeedFile(cfg *config.Config) (*seed.File, error) {
	if cfg.Seed.Path == "" {
		return seed.Default()
	}
	slog.Debug("loading seed", "path", cfg.Seed.Path)
	return seed.Load(cfg.Seed.Path)
}

// openJournal opens the configured journal. A nil journal and nil error
// mean journalling is off.
func openJournal(cfg *config.Config) (*journal.Journal, error) {
	if cfg.Journal.Path == "" {
		return nil, nil
	}
	slog.Debug("opening journal", "path", cfg.Journal.Path)
	return journal.Open(cfg.Journal.Path)
}

// simulatorFor builds the simulator. seedOverride wins over the config
// seed; zero in both seeds from the runtime.
func simulatorFor(cfg *config.Config, seedOverride uint64) *simulation.Simulator {
	opts := []simulation.Option{simulation.WithAmbientAlerts(cfg.Simulation.AmbientAlerts)}
	switch {
	case seedOverride != 0:
		opts = append(opts, simulation.WithSeed(seedOverride))
	case cfg.Simulation.Seed != 0:
		opts = append(opts, simulation.WithSeed(cfg.Simulation.Seed))
	}
	return simulation.New(opts...)
}

// RunVirtualSession logs in, optionally triggers the demo failure, runs
// p.Ticks manual ticks one interval apart and returns the final state.
func RunVirtualSession(ctx context.Context, cfg *config.Config, p SessionParams) (*SessionOutcome, error) {
	file, err := loadSeedFile(cfg)
	if err != nil {
		return nil, err
	}

	start := p.Start
	if start.IsZero() {
		start = time.Now().UTC()
	}
	clock := testutil.NewFakeClockAt(start)

	engOpts := []engine.EngineOption{
		engine.WithStepper(simulatorFor(cfg, p.Seed)),
		engine.WithNow(clock.Now),
		engine.WithInterval(virtualIdle),
		engine.WithRearmOnReset(cfg.Simulation.RearmOnReset),
	}
	j, err := openJournal(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		engOpts = append(engOpts, engine.WithJournal(j))
	}

	eng := engine.New(file.Build(clock.Now()), engOpts...)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := eng.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("engine stopped", "error", err)
		}
	}()
	defer func() {
		cancel()
		<-done
	}()

	login, err := eng.Login(ctx, p.Email, p.Password)
	if err != nil {
		return nil, err
	}
	slog.Info("session started", "session_id", eng.SessionID(), "user", login.User.ID, "role", login.User.Role)

	out := &SessionOutcome{SessionID: eng.SessionID(), User: login.User}

	if p.TriggerFailure {
		if _, err := eng.Dispatch(ctx, reducer.TriggerDemoFailure{}); err != nil {
			return nil, err
		}
		out.Applied++
	}

	interval := cfg.Simulation.Interval
	if interval <= 0 {
		interval = engine.DefaultInterval
	}
	for i := 0; i < p.Ticks; i++ {
		clock.Advance(interval)
		r, err := eng.Tick(ctx)
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", i+1, err)
		}
		out.Applied += r.Applied
	}

	out.Final = eng.Snapshot()
	out.Now = clock.Now()
	slog.Info("session finished", "session_id", out.SessionID, "ticks", p.Ticks, "applied", out.Applied)
	return out, nil
}
