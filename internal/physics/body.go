package physics

import "math"

// G is the gravitational constant in N·m²/kg².
const G = 6.67e-11

// Drawer receives the current position and display name of a body.
// Renderers implement it; bodies never mutate through it.
type Drawer interface {
	Draw(x, y float64, name string)
}

// Body is a point mass moving in the plane.
//
// Bodies are owned by the collection that steps them. Mass is expected to be
// strictly positive; coincident bodies and zero mass are not guarded and
// produce NaN or Inf in the force and update paths.
type Body struct {
	x, y   float64
	vx, vy float64
	mass   float64
	name   string
}

// NewBody returns a body with the given initial conditions.
func NewBody(x, y, vx, vy, mass float64, name string) *Body {
	return &Body{
		x:    x,
		y:    y,
		vx:   vx,
		vy:   vy,
		mass: mass,
		name: name,
	}
}

// CopyBody returns an independent body holding b's current state.
func CopyBody(b *Body) *Body {
	return b.Clone()
}

func (b *Body) Clone() *Body {
	c := *b
	return &c
}

func (b *Body) X() float64    { return b.x }
func (b *Body) Y() float64    { return b.y }
func (b *Body) VX() float64   { return b.vx }
func (b *Body) VY() float64   { return b.vy }
func (b *Body) Mass() float64 { return b.mass }
func (b *Body) Name() string  { return b.name }

// DistanceTo returns the Euclidean distance between b and o.
func (b *Body) DistanceTo(o *Body) float64 {
	dx := b.x - o.x
	dy := b.y - o.y
	return math.Sqrt(float64(dx*dx) + float64(dy*dy))
}

// ForceExertedBy returns the magnitude of the gravitational force o exerts on b.
func (b *Body) ForceExertedBy(o *Body) float64 {
	d := b.DistanceTo(o)
	return G * (b.mass * o.mass) / (d * d)
}

// ForceExertedByX returns the x component of the force o exerts on b,
// positive when o lies to the right of b.
func (b *Body) ForceExertedByX(o *Body) float64 {
	return b.ForceExertedBy(o) * (o.x - b.x) / b.DistanceTo(o)
}

// ForceExertedByY returns the y component of the force o exerts on b.
func (b *Body) ForceExertedByY(o *Body) float64 {
	return b.ForceExertedBy(o) * (o.y - b.y) / b.DistanceTo(o)
}

// NetForceX sums the x force components of every body in bodies except b
// itself, in slice order. Self is matched by pointer, so a distinct body with
// identical fields still contributes.
func (b *Body) NetForceX(bodies []*Body) float64 {
	fx := 0.0
	for _, o := range bodies {
		if o == b {
			continue
		}
		fx += b.ForceExertedByX(o)
	}
	return fx
}

// NetForceY is the y counterpart of NetForceX.
func (b *Body) NetForceY(bodies []*Body) float64 {
	fy := 0.0
	for _, o := range bodies {
		if o == b {
			continue
		}
		fy += b.ForceExertedByY(o)
	}
	return fy
}

// Advance applies one semi-implicit Euler step: velocity is updated from the
// net force first, then position moves with the new velocity. Every product
// is rounded before it is added, so no platform fuses them into an FMA.
func (b *Body) Advance(dt, fx, fy float64) {
	ax := fx / b.mass
	ay := fy / b.mass
	b.vx += float64(dt * ax)
	b.vy += float64(dt * ay)
	b.x += float64(dt * b.vx)
	b.y += float64(dt * b.vy)
}

// Draw hands b's position and name to d.
func (b *Body) Draw(d Drawer) {
	d.Draw(b.x, b.y, b.name)
}

// IsFinite reports whether every component of b's state is finite.
func (b *Body) IsFinite() bool {
	for _, v := range [...]float64{b.x, b.y, b.vx, b.vy} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
