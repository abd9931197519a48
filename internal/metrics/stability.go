package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/sim"
)

// Containment is the fraction of observed steps in which every body stayed
// inside the universe radius. Universes without a radius always score 1.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(u *sim.Universe, t float64) {
	c.samples++
	if u.Radius <= 0 {
		return
	}
	for _, b := range u.Bodies {
		if math.Abs(b.X()) > u.Radius || math.Abs(b.Y()) > u.Radius {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
