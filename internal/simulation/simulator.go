package simulation

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/roach88/thermoguard/internal/domain"
	"github.com/roach88/thermoguard/internal/evaluator"
	"github.com/roach88/thermoguard/internal/reducer"
)

// Scripted climb parameters.
const (
	// ClimbSteps is the number of ticks that add ClimbBase+U[0,ClimbJitter).
	ClimbSteps  = 8
	ClimbBase   = 1.2
	ClimbJitter = 0.5

	// SettleBase is where the climb lands on the tick after ClimbSteps.
	SettleBase   = 31.0
	SettleJitter = 0.5
)

// Ambient walk parameters.
const (
	// DriftSpan is the width of the per-tick drift, centred on zero.
	DriftSpan = 0.4

	// RecentreFactor times the band width is how far a reading may stray
	// from the midpoint before it is pulled back.
	RecentreFactor = 0.6

	// RecentreSpan is the width of the landing zone around the midpoint.
	RecentreSpan = 2.0
)

// Simulator produces the commands for each tick.
//
// Thread-safety: Step and Rearm are safe for concurrent use via internal
// mutex; calls are serialized.
type Simulator struct {
	mu            sync.Mutex
	rng           *rand.Rand
	step          int
	ambientAlerts bool
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand sets the random source. Use a seeded source for reproducible
// runs.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rng = r
	}
}

// WithSeed seeds a PCG source.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithAmbientAlerts makes threshold crossings on ordinary devices raise
// alerts as well. Off by default: ambient drift updates status silently.
func WithAmbientAlerts(enabled bool) Option {
	return func(s *Simulator) {
		s.ambientAlerts = enabled
	}
}

// New creates a Simulator. Without WithRand or WithSeed the source is
// seeded from the runtime.
func New(opts ...Option) *Simulator {
	s := &Simulator{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// FailureStep returns how many scripted ticks have run since the last
// Rearm.
func (sim *Simulator) FailureStep() int {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.step
}

// Rearm resets the scripted step counter so the next triggered failure
// climbs from step one again. ResetDemo does not do this on its own.
func (sim *Simulator) Rearm() {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.step = 0
}

// Step returns the commands for one tick over s, in device order.
//
// Every device yields one UpdateDeviceTemperature. For the scripted device
// the slice may also carry CompleteDemoFailure (before the reading) and the
// evaluator's commands (after it). Evaluation reads s, the state before the
// tick.
func (sim *Simulator) Step(s domain.Snapshot, now time.Time) []reducer.Command {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	var cmds []reducer.Command
	for _, d := range s.Devices {
		if d.DemoFailure && s.DemoFailureTriggered && s.DemoFailureInProgress {
			cmds = append(cmds, sim.climb(s, d, now)...)
			continue
		}
		cmds = append(cmds, sim.drift(s, d, now)...)
	}
	return cmds
}

func (sim *Simulator) climb(s domain.Snapshot, d domain.Device, now time.Time) []reducer.Command {
	var cmds []reducer.Command

	sim.step++
	var temp float64
	if sim.step <= ClimbSteps {
		temp = d.Temperature + ClimbBase + sim.rng.Float64()*ClimbJitter
	} else {
		temp = SettleBase + sim.rng.Float64()*SettleJitter
		cmds = append(cmds, reducer.CompleteDemoFailure{})
	}

	status := domain.ClimbStatus(temp, d.ThresholdMax)
	cmds = append(cmds, reducer.UpdateDeviceTemperature{DeviceID: d.ID, Temperature: temp, Status: status})

	if severity, ok := evaluator.Transition(d.Status, status); ok {
		cmds = append(cmds, evaluator.Evaluate(s, d, temp, severity, now)...)
	}
	return cmds
}

func (sim *Simulator) drift(s domain.Snapshot, d domain.Device, now time.Time) []reducer.Command {
	temp := d.Temperature + (sim.rng.Float64()-0.5)*DriftSpan
	mid := d.Midpoint()
	if math.Abs(temp-mid) > d.BandWidth()*RecentreFactor {
		temp = mid + (sim.rng.Float64()-0.5)*RecentreSpan
	}

	status := domain.BandedStatus(temp, d.ThresholdMin, d.ThresholdMax)
	cmds := []reducer.Command{
		reducer.UpdateDeviceTemperature{DeviceID: d.ID, Temperature: temp, Status: status},
	}

	if sim.ambientAlerts {
		if severity, ok := evaluator.Transition(d.Status, status); ok {
			cmds = append(cmds, evaluator.Evaluate(s, d, temp, severity, now)...)
		}
	}
	return cmds
}

// Observe classifies an externally supplied reading for d with the ambient
// rule and returns the commands for it, evaluator included when the status
// change warrants an alert. Used to inject readings by hand.
func Observe(s domain.Snapshot, d domain.Device, temperature float64, now time.Time) []reducer.Command {
	status := domain.BandedStatus(temperature, d.ThresholdMin, d.ThresholdMax)
	cmds := []reducer.Command{
		reducer.UpdateDeviceTemperature{DeviceID: d.ID, Temperature: temperature, Status: status},
	}
	if severity, ok := evaluator.Transition(d.Status, status); ok {
		cmds = append(cmds, evaluator.Evaluate(s, d, temperature, severity, now)...)
	}
	return cmds
}
