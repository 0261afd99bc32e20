package surveil

import (
	"context"
	"errors"
)

// ErrMaxTimesteps is returned when a Simulation completes all of its
// configured timesteps without an external cancel.
var ErrMaxTimesteps = errors.New("surveil: reached max timesteps")

// DetectionEvent records one sensor firing against the adversary pool at a
// given timestep.
type DetectionEvent struct {
	Timestep   int
	SensorName string
	Kind       SensorKind
}

// Simulation drives the per-timestep loop: update every adversary, update
// every sensor, then query detection — in that strict order (spec.md §4.7,
// grounded on the original source's main loop together with the teacher's
// headless TestSim update ordering).
//
// MaxTimesteps is the configured run length; a negative value means
// unbounded — the run continues until ctx is cancelled (environment.
// max_timesteps: "inf" or null in the config).
type Simulation struct {
	Sensors      []Sensor
	Adversaries  *AdversaryPool
	MaxTimesteps int

	timestep int
	events   []DetectionEvent
}

// NewSimulation builds a simulation over already-placed sensors and a
// populated adversary pool. A negative maxTimesteps means unbounded.
func NewSimulation(sensors []Sensor, adversaries *AdversaryPool, maxTimesteps int) *Simulation {
	return &Simulation{Sensors: sensors, Adversaries: adversaries, MaxTimesteps: maxTimesteps}
}

// Step advances the simulation by exactly one timestep and returns the
// detection events recorded during it.
func (s *Simulation) Step() []DetectionEvent {
	s.Adversaries.Step()

	for _, sensor := range s.Sensors {
		sensor.Update()
	}

	var hits []DetectionEvent
	for _, sensor := range s.Sensors {
		if sensor.Detect(s.Adversaries) {
			hits = append(hits, DetectionEvent{Timestep: s.timestep, SensorName: sensor.Name(), Kind: sensor.Kind()})
		}
	}
	s.events = append(s.events, hits...)
	s.timestep++
	return hits
}

// Timestep returns the number of completed steps.
func (s *Simulation) Timestep() int { return s.timestep }

// Events returns every detection event recorded so far.
func (s *Simulation) Events() []DetectionEvent { return s.events }

// Run steps the simulation until MaxTimesteps is reached or ctx is
// cancelled, whichever comes first. A negative MaxTimesteps never completes
// on its own; the run continues until ctx is cancelled. Run returns
// ErrMaxTimesteps on normal completion, or ctx.Err() if cancelled early.
func (s *Simulation) Run(ctx context.Context) error {
	for s.MaxTimesteps < 0 || s.timestep < s.MaxTimesteps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Step()
	}
	return ErrMaxTimesteps
}
