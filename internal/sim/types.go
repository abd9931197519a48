package sim

import "math"

// StateStride is the number of values per body in a State: x, y, vx, vy.
const StateStride = 4

// State is the flattened kinematic state of a universe.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Body returns the x, y, vx, vy values of body i.
func (s State) Body(i int) (x, y, vx, vy float64) {
	o := i * StateStride
	return s[o], s[o+1], s[o+2], s[o+3]
}

func (s State) NumBodies() int {
	return len(s) / StateStride
}

type Metric interface {
	Name() string
	Observe(u *Universe, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(u *Universe, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	Workers       int
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            25000.0,
		Duration:      157788000.0,
		Workers:       1,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Steps returns the number of steps needed to cover the duration. A partial
// final step is taken in full.
func (c Config) Steps() int {
	return int(math.Ceil(c.Duration/c.Dt - 1e-9))
}

type Result struct {
	Names       []string
	Masses      []float64
	States      []State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Final returns the last recorded state, or nil for an empty result.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}
