package sim

import "github.com/san-kum/nbody/internal/physics"

// minParallelChunk keeps tiny universes on a single goroutine.
const minParallelChunk = 16

// Universe is an ordered collection of bodies stepped together.
type Universe struct {
	Radius  float64
	Bodies  []*physics.Body
	Workers int

	fx, fy []float64
}

func NewUniverse(radius float64, bodies []*physics.Body) *Universe {
	return &Universe{
		Radius:  radius,
		Bodies:  bodies,
		Workers: 1,
	}
}

// Clone returns a deep copy; the bodies of the copy are independent.
func (u *Universe) Clone() *Universe {
	bodies := make([]*physics.Body, len(u.Bodies))
	for i, b := range u.Bodies {
		bodies[i] = b.Clone()
	}
	c := NewUniverse(u.Radius, bodies)
	c.Workers = u.Workers
	return c
}

func (u *Universe) Len() int { return len(u.Bodies) }

func (u *Universe) Names() []string {
	names := make([]string, len(u.Bodies))
	for i, b := range u.Bodies {
		names[i] = b.Name()
	}
	return names
}

func (u *Universe) Masses() []float64 {
	masses := make([]float64, len(u.Bodies))
	for i, b := range u.Bodies {
		masses[i] = b.Mass()
	}
	return masses
}

// Forces computes the net force on every body from the current state. The
// returned slices are scratch space reused by the next call.
func (u *Universe) Forces() (fx, fy []float64) {
	n := len(u.Bodies)
	if len(u.fx) != n {
		u.fx = make([]float64, n)
		u.fy = make([]float64, n)
	}

	ParallelFor(n, u.Workers, minParallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			b := u.Bodies[i]
			u.fx[i] = b.NetForceX(u.Bodies)
			u.fy[i] = b.NetForceY(u.Bodies)
		}
	})

	return u.fx, u.fy
}

// Step advances every body by dt. All forces are computed from the pre-step
// state before any body moves.
func (u *Universe) Step(dt float64) {
	fx, fy := u.Forces()

	ParallelFor(len(u.Bodies), u.Workers, minParallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			u.Bodies[i].Advance(dt, fx[i], fy[i])
		}
	})
}

func (u *Universe) State() State {
	s := make(State, len(u.Bodies)*StateStride)
	for i, b := range u.Bodies {
		o := i * StateStride
		s[o] = b.X()
		s[o+1] = b.Y()
		s[o+2] = b.VX()
		s[o+3] = b.VY()
	}
	return s
}

// FirstInvalid returns the index of the first body with a non-finite state,
// or -1.
func (u *Universe) FirstInvalid() int {
	for i, b := range u.Bodies {
		if !b.IsFinite() {
			return i
		}
	}
	return -1
}

func (u *Universe) Energy() float64 {
	return physics.Energy(u.Bodies)
}

// Draw renders every body in collection order.
func (u *Universe) Draw(d physics.Drawer) {
	for _, b := range u.Bodies {
		b.Draw(d)
	}
}
