package physics

import "math"

// KineticEnergy returns 1/2·m·v² for b.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.mass * (b.vx*b.vx + b.vy*b.vy)
}

// Energy returns the total kinetic plus gravitational potential energy of
// the system. Each pair is counted once.
func Energy(bodies []*Body) float64 {
	ke := 0.0
	pe := 0.0

	for i, bi := range bodies {
		ke += bi.KineticEnergy()

		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			pe -= G * bi.mass * bj.mass / bi.DistanceTo(bj)
		}
	}

	return ke + pe
}

// Momentum returns the total linear momentum.
func Momentum(bodies []*Body) (px, py float64) {
	for _, b := range bodies {
		px += b.mass * b.vx
		py += b.mass * b.vy
	}
	return
}

// AngularMomentum returns the z component of total angular momentum about
// the origin.
func AngularMomentum(bodies []*Body) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.mass * (b.x*b.vy - b.y*b.vx)
	}
	return L
}

// CenterOfMass returns the mass-weighted mean position. An empty or massless
// system reports the origin.
func CenterOfMass(bodies []*Body) (cx, cy float64) {
	total := 0.0
	for _, b := range bodies {
		cx += b.mass * b.x
		cy += b.mass * b.y
		total += b.mass
	}
	if total == 0 {
		return 0, 0
	}
	return cx / total, cy / total
}

// MaxExtent returns the largest absolute coordinate among bodies, useful for
// sizing a view when no radius is known.
func MaxExtent(bodies []*Body) float64 {
	r := 0.0
	for _, b := range bodies {
		r = math.Max(r, math.Max(math.Abs(b.x), math.Abs(b.y)))
	}
	return r
}
