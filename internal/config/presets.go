package config

import (
	"sort"

	"github.com/san-kum/nbody/internal/sim"
)

type Preset struct {
	Radius   float64    `yaml:"radius"`
	Dt       float64    `yaml:"dt"`
	Duration float64    `yaml:"duration"`
	Bodies   []BodySpec `yaml:"bodies"`
}

// Universe returns a fresh universe; presets are never mutated.
func (p *Preset) Universe() *sim.Universe {
	u := sim.NewUniverse(p.Radius, nil)
	for _, b := range p.Bodies {
		u.Bodies = append(u.Bodies, b.Body())
	}
	return u
}

var Presets = map[string]*Preset{
	"planets": {
		Radius: 2.50e11, Dt: 25000, Duration: 157788000,
		Bodies: []BodySpec{
			{X: 1.4960e11, VY: 2.9800e4, Mass: 5.9740e24, Name: "earth.gif"},
			{X: 2.2790e11, VY: 2.4100e4, Mass: 6.4190e23, Name: "mars.gif"},
			{X: 5.7900e10, VY: 4.7900e4, Mass: 3.3020e23, Name: "mercury.gif"},
			{Mass: 1.9890e30, Name: "sun.gif"},
			{X: 1.0820e11, VY: 3.5000e4, Mass: 4.8690e24, Name: "venus.gif"},
		},
	},
	"earth-moon": {
		Radius: 5e8, Dt: 60, Duration: 2.36e6,
		Bodies: []BodySpec{
			{Mass: 5.97e24, Name: "earth.gif"},
			{X: 3.84e8, VY: 1.022e3, Mass: 7.35e22, Name: "moon.gif"},
		},
	},
	"binary": {
		Radius: 4e11, Dt: 25000, Duration: 1.5e8,
		Bodies: []BodySpec{
			{X: -1.5e11, VY: -1.49e4, Mass: 1.989e30, Name: "alpha.gif"},
			{X: 1.5e11, VY: 1.49e4, Mass: 1.989e30, Name: "beta.gif"},
		},
	},
}

func GetPreset(name string) *Preset {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
