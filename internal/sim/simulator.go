package sim

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps u in place for cfg.Duration and records its trajectory.
func (s *Simulator) Run(ctx context.Context, u *Universe, cfg Config) (*Result, error) {
	if err := validate(u, cfg); err != nil {
		return nil, err
	}
	if cfg.Workers > 0 {
		u.Workers = cfg.Workers
	}

	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	steps := cfg.Steps()
	result := &Result{
		Names:   u.Names(),
		Masses:  u.Masses(),
		States:  make([]State, 0, steps/every+2),
		Times:   make([]float64, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, u.State())
	result.Times = append(result.Times, t)

	initialEnergy := u.Energy()
	recorded := true

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(u, t)
		}

		u.Step(dt)
		t += dt
		result.StepsTaken++
		recorded = false

		if (i+1)%every == 0 {
			result.States = append(result.States, u.State())
			result.Times = append(result.Times, t)
			recorded = true
		}

		if cfg.ValidateState {
			if idx := u.FirstInvalid(); idx >= 0 {
				err := &SimulationError{Step: i, Time: t, Body: u.Bodies[idx].Name(), Wrapped: ErrInvalidState}
				result.Errors = append(result.Errors, err)
				break
			}
		}
	}

	if !recorded {
		result.States = append(result.States, u.State())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		m.Observe(u, t)
	}

	finalEnergy := u.Energy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps u until cfg.Duration elapses, the context is
// canceled, or callback returns false. The callback sees the state before
// each step and once more after the last.
func (s *Simulator) RunWithCallback(ctx context.Context, u *Universe, cfg Config, callback func(*Universe, float64) bool) error {
	if err := validate(u, cfg); err != nil {
		return err
	}
	if cfg.Workers > 0 {
		u.Workers = cfg.Workers
	}

	t := 0.0
	steps := cfg.Steps()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(u, t) {
			return nil
		}

		u.Step(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState {
			if idx := u.FirstInvalid(); idx >= 0 {
				return &SimulationError{Step: i, Time: t, Body: u.Bodies[idx].Name(), Wrapped: ErrInvalidState}
			}
		}
	}

	callback(u, t)
	return nil
}

func validate(u *Universe, cfg Config) error {
	if u == nil || len(u.Bodies) == 0 {
		return ErrEmptyUniverse
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidStep, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidStep, cfg.Duration)
	}
	return nil
}
