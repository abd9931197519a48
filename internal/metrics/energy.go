package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
)

// EnergyDrift tracks the largest relative deviation of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(u *sim.Universe, t float64) {
	energy := u.Energy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest change in total linear momentum relative
// to the system's characteristic momentum sum(m*|v|). Pairwise forces cancel,
// so this stays near rounding error for a closed system.
type MomentumDrift struct {
	name     string
	px0, py0 float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(u *sim.Universe, t float64) {
	px, py := physics.Momentum(u.Bodies)

	if m.samples == 0 {
		m.px0, m.py0 = px, py
	}
	m.samples++

	scale := 0.0
	for _, b := range u.Bodies {
		scale += b.Mass() * math.Hypot(b.VX(), b.VY())
	}
	if scale == 0 {
		return
	}

	drift := math.Hypot(px-m.px0, py-m.py0) / scale
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.px0, m.py0 = 0, 0
	m.maxDrift = 0
	m.samples = 0
}

// AngularMomentumDrift tracks the largest change in total angular momentum
// about the origin, relative to sum(m*|r x v|).
type AngularMomentumDrift struct {
	name     string
	l0       float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(u *sim.Universe, t float64) {
	l := physics.AngularMomentum(u.Bodies)

	if a.samples == 0 {
		a.l0 = l
	}
	a.samples++

	scale := 0.0
	for _, b := range u.Bodies {
		scale += b.Mass() * math.Abs(b.X()*b.VY()-b.Y()*b.VX())
	}
	if scale == 0 {
		return
	}

	a.maxDrift = math.Max(a.maxDrift, math.Abs(l-a.l0)/scale)
}

func (a *AngularMomentumDrift) Value() float64 {
	return a.maxDrift
}

func (a *AngularMomentumDrift) Reset() {
	a.l0 = 0
	a.maxDrift = 0
	a.samples = 0
}

// Defaults returns the metrics attached to every recorded run.
func Defaults() []sim.Metric {
	return []sim.Metric{NewEnergyDrift(), NewMomentumDrift(), NewAngularMomentumDrift(), NewContainment()}
}
