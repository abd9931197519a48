package analysis

import (
	"math"

	"github.com/san-kum/nbody/internal/sim"
)

// DominantPeriod estimates the period of the strongest oscillation in
// samples taken every sampleDt seconds. It returns 0 when no oscillation
// completes within the record.
func DominantPeriod(samples []float64, sampleDt float64) float64 {
	ps := PowerSpectrum(samples)
	if len(ps) < 2 || sampleDt <= 0 {
		return 0
	}

	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}

	n := float64(2 * len(ps))
	return n * sampleDt / float64(maxIdx)
}

// Orbit summarizes one body's motion about a reference body.
type Orbit struct {
	Name         string
	Periapsis    float64
	Apoapsis     float64
	Eccentricity float64
	Period       float64
}

// Orbits analyses every body in a recorded trajectory relative to the body
// at index ref. States must be sampled at a fixed interval of sampleDt
// seconds. The reference body itself is skipped.
func Orbits(names []string, states []sim.State, sampleDt float64, ref int) []Orbit {
	if len(states) == 0 {
		return nil
	}
	n := states[0].NumBodies()
	if ref < 0 || ref >= n {
		return nil
	}

	orbits := make([]Orbit, 0, n-1)
	xs := make([]float64, len(states))
	for i := 0; i < n; i++ {
		if i == ref {
			continue
		}

		o := Orbit{Periapsis: math.Inf(1), Apoapsis: 0}
		if i < len(names) {
			o.Name = names[i]
		}
		for j, s := range states {
			x, y, _, _ := s.Body(i)
			rx, ry, _, _ := s.Body(ref)
			r := math.Hypot(x-rx, y-ry)
			o.Periapsis = math.Min(o.Periapsis, r)
			o.Apoapsis = math.Max(o.Apoapsis, r)
			xs[j] = x - rx
		}
		if o.Apoapsis+o.Periapsis > 0 {
			o.Eccentricity = (o.Apoapsis - o.Periapsis) / (o.Apoapsis + o.Periapsis)
		}
		o.Period = DominantPeriod(xs, sampleDt)
		orbits = append(orbits, o)
	}
	return orbits
}

// Heaviest returns the index of the most massive body, or -1 for none.
func Heaviest(masses []float64) int {
	idx := -1
	best := math.Inf(-1)
	for i, m := range masses {
		if m > best {
			best = m
			idx = i
		}
	}
	return idx
}
