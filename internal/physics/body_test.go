package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbody/internal/physics"
)

type recordedDraw struct {
	x, y float64
	name string
}

type recordingDrawer struct {
	calls []recordedDraw
}

func (r *recordingDrawer) Draw(x, y float64, name string) {
	r.calls = append(r.calls, recordedDraw{x, y, name})
}

var _ = Describe("Body", func() {
	var (
		earth *physics.Body
		moon  *physics.Body
	)

	BeforeEach(func() {
		earth = physics.NewBody(0, 0, 0, 0, 5.97e24, "earth.gif")
		moon = physics.NewBody(3.84e8, 0, 0, 0, 7.35e22, "moon.gif")
	})

	Describe("construction", func() {
		It("exposes its initial conditions", func() {
			b := physics.NewBody(1, 2, 3, 4, 5, "sun.gif")
			Expect(b.X()).To(Equal(1.0))
			Expect(b.Y()).To(Equal(2.0))
			Expect(b.VX()).To(Equal(3.0))
			Expect(b.VY()).To(Equal(4.0))
			Expect(b.Mass()).To(Equal(5.0))
			Expect(b.Name()).To(Equal("sun.gif"))
		})

		It("copies every field into independent storage", func() {
			orig := physics.NewBody(1, 2, 3, 4, 5, "venus.gif")
			cp := physics.CopyBody(orig)

			Expect(cp).NotTo(BeIdenticalTo(orig))
			Expect(*cp).To(Equal(*orig))

			cp.Advance(1, 10, 10)
			Expect(orig.X()).To(Equal(1.0))
			Expect(orig.VX()).To(Equal(3.0))
			Expect(cp.X()).NotTo(Equal(orig.X()))
		})
	})

	Describe("DistanceTo", func() {
		It("is symmetric", func() {
			a := physics.NewBody(1.5, -2, 0, 0, 1, "a")
			b := physics.NewBody(-4, 7.25, 0, 0, 1, "b")
			Expect(a.DistanceTo(b)).To(Equal(b.DistanceTo(a)))
		})

		It("computes the euclidean distance", func() {
			a := physics.NewBody(0, 0, 0, 0, 1, "a")
			b := physics.NewBody(3, 4, 0, 0, 1, "b")
			Expect(a.DistanceTo(b)).To(Equal(5.0))
		})

		It("is zero only for coincident bodies", func() {
			a := physics.NewBody(2, 2, 0, 0, 1, "a")
			b := physics.NewBody(2, 2, 9, 9, 3, "b")
			Expect(a.DistanceTo(b)).To(BeZero())
			Expect(a.DistanceTo(earth)).To(BeNumerically(">", 0))
		})
	})

	Describe("ForceExertedBy", func() {
		It("follows Newton's law with G = 6.67e-11", func() {
			d := 3.84e8
			want := 6.67e-11 * 5.97e24 * 7.35e22 / (d * d)
			Expect(earth.ForceExertedBy(moon)).To(BeNumerically("~", want, want*1e-12))
		})

		It("has symmetric magnitude", func() {
			Expect(earth.ForceExertedBy(moon)).To(Equal(moon.ForceExertedBy(earth)))
		})

		It("is infinite for coincident bodies", func() {
			twin := physics.NewBody(0, 0, 0, 0, 1, "twin")
			Expect(math.IsInf(earth.ForceExertedBy(twin), 1)).To(BeTrue())
		})
	})

	Describe("force components", func() {
		It("points toward the other body", func() {
			Expect(earth.ForceExertedByX(moon)).To(BeNumerically(">", 0))
			Expect(moon.ForceExertedByX(earth)).To(BeNumerically("<", 0))
		})

		It("is zero along an axis with no separation", func() {
			Expect(earth.ForceExertedByY(moon)).To(BeZero())
		})

		It("splits the magnitude along the separation vector", func() {
			a := physics.NewBody(0, 0, 0, 0, 1e10, "a")
			b := physics.NewBody(3, 4, 0, 0, 1e10, "b")
			f := a.ForceExertedBy(b)
			Expect(a.ForceExertedByX(b)).To(BeNumerically("~", f*0.6, f*1e-12))
			Expect(a.ForceExertedByY(b)).To(BeNumerically("~", f*0.8, f*1e-12))
		})

		It("is NaN for coincident bodies", func() {
			twin := physics.NewBody(0, 0, 0, 0, 1, "twin")
			Expect(math.IsNaN(earth.ForceExertedByX(twin))).To(BeTrue())
		})
	})

	Describe("net force", func() {
		It("is exactly zero for a lone body", func() {
			bodies := []*physics.Body{earth}
			Expect(earth.NetForceX(bodies)).To(Equal(0.0))
			Expect(earth.NetForceY(bodies)).To(Equal(0.0))
		})

		It("excludes only the body itself", func() {
			bodies := []*physics.Body{earth, moon}
			Expect(earth.NetForceX(bodies)).To(Equal(earth.ForceExertedByX(moon)))
			Expect(moon.NetForceX(bodies)).To(Equal(moon.ForceExertedByX(earth)))
		})

		It("counts a field-identical duplicate at another slot", func() {
			dup := physics.CopyBody(earth)
			f := earth.NetForceX([]*physics.Body{earth, dup})
			Expect(math.IsNaN(f)).To(BeTrue())
		})

		It("sums contributions from every other body", func() {
			left := physics.NewBody(-1e8, 0, 0, 0, 7.35e22, "left")
			up := physics.NewBody(0, 2e8, 0, 0, 7.35e22, "up")
			bodies := []*physics.Body{earth, moon, left, up}

			wantX := earth.ForceExertedByX(moon) + earth.ForceExertedByX(left) + earth.ForceExertedByX(up)
			wantY := earth.ForceExertedByY(moon) + earth.ForceExertedByY(left) + earth.ForceExertedByY(up)
			Expect(earth.NetForceX(bodies)).To(BeNumerically("~", wantX, math.Abs(wantX)*1e-12))
			Expect(earth.NetForceY(bodies)).To(BeNumerically("~", wantY, math.Abs(wantY)*1e-12))
		})
	})

	Describe("Advance", func() {
		It("moves linearly under zero force", func() {
			b := physics.NewBody(1, 2, 3, -4, 10, "b")
			b.Advance(0.5, 0, 0)
			Expect(b.X()).To(Equal(2.5))
			Expect(b.Y()).To(Equal(0.0))
			Expect(b.VX()).To(Equal(3.0))
			Expect(b.VY()).To(Equal(-4.0))
		})

		It("updates position with the new velocity", func() {
			b := physics.NewBody(0, 0, 1, 0, 2, "b")
			b.Advance(1, 4, 0)
			// a = 2, v' = 3, x' = 0 + 1*3
			Expect(b.VX()).To(Equal(3.0))
			Expect(b.X()).To(Equal(3.0))
		})

		It("matches uniformly accelerated motion over many steps", func() {
			const (
				mass = 4.0
				fx   = 2.0
				fy   = -6.0
				dt   = 0.01
				n    = 1000
			)
			b := physics.NewBody(5, -3, 0, 0, mass, "b")
			for i := 0; i < n; i++ {
				b.Advance(dt, fx, fy)
			}

			ax, ay := fx/mass, fy/mass
			steps := float64(n)
			// semi-implicit Euler: x_n = x0 + a*dt^2*n(n+1)/2
			Expect(b.VX()).To(BeNumerically("~", ax*dt*steps, 1e-9))
			Expect(b.VY()).To(BeNumerically("~", ay*dt*steps, 1e-9))
			Expect(b.X()).To(BeNumerically("~", 5+ax*dt*dt*steps*(steps+1)/2, 1e-9))
			Expect(b.Y()).To(BeNumerically("~", -3+ay*dt*dt*steps*(steps+1)/2, 1e-9))

			// and converges on the continuous solution
			t := dt * steps
			Expect(b.X()).To(BeNumerically("~", 5+0.5*ax*t*t, ax*dt*t))
		})

		It("produces infinite acceleration for zero mass", func() {
			b := physics.NewBody(0, 0, 0, 0, 0, "b")
			b.Advance(1, 1, 0)
			Expect(math.IsInf(b.VX(), 1)).To(BeTrue())
			Expect(b.IsFinite()).To(BeFalse())
		})

		It("rounds each product before adding it", func() {
			// dt*dt carries a 2^-54 term that only a fused multiply-add would keep.
			dt := 1 + math.Ldexp(1, -27)
			near := -(1 + math.Ldexp(1, -26))

			b := physics.NewBody(0, 0, near, 0, 1, "v")
			b.Advance(dt, dt, 0)
			Expect(b.VX()).To(Equal(0.0))
			Expect(b.X()).To(Equal(0.0))

			c := physics.NewBody(near, 0, dt, 0, 1, "x")
			c.Advance(dt, 0, 0)
			Expect(c.VX()).To(Equal(dt))
			Expect(c.X()).To(Equal(0.0))
		})
	})

	Describe("earth-moon scenario", func() {
		It("accelerates the moon toward the earth by G*M/d^2 in one step", func() {
			bodies := []*physics.Body{earth, moon}
			fx := make([]float64, len(bodies))
			fy := make([]float64, len(bodies))
			for i, b := range bodies {
				fx[i] = b.NetForceX(bodies)
				fy[i] = b.NetForceY(bodies)
			}
			for i, b := range bodies {
				b.Advance(1, fx[i], fy[i])
			}

			d := 3.84e8
			a := 6.67e-11 * 5.97e24 / (d * d)
			Expect(moon.VX()).To(BeNumerically("<", 0))
			Expect(moon.VX()).To(BeNumerically("~", -a, a*1e-6))
			// x' = x + dt*v'; the sum is limited by the spacing of floats near d
			Expect(moon.X() - d).To(BeNumerically("~", -a, a*1e-4))
			Expect(moon.VY()).To(BeZero())

			aEarth := 6.67e-11 * 7.35e22 / (d * d)
			Expect(earth.VX()).To(BeNumerically("~", aEarth, aEarth*1e-6))
		})
	})

	Describe("Draw", func() {
		It("hands position and name to the drawer", func() {
			rec := &recordingDrawer{}
			moon.Draw(rec)
			Expect(rec.calls).To(Equal([]recordedDraw{{3.84e8, 0, "moon.gif"}}))
		})
	})
})

var _ = Describe("system diagnostics", func() {
	It("computes kinetic and potential energy", func() {
		a := physics.NewBody(0, 0, 0, 2, 3, "a")
		b := physics.NewBody(10, 0, 0, -1, 6, "b")
		bodies := []*physics.Body{a, b}

		ke := 0.5*3*4 + 0.5*6*1
		pe := -physics.G * 3 * 6 / 10
		Expect(physics.Energy(bodies)).To(BeNumerically("~", ke+pe, 1e-12))
	})

	It("computes momentum and centre of mass", func() {
		a := physics.NewBody(0, 0, 1, 2, 3, "a")
		b := physics.NewBody(10, 4, -1, 0, 1, "b")
		bodies := []*physics.Body{a, b}

		px, py := physics.Momentum(bodies)
		Expect(px).To(Equal(2.0))
		Expect(py).To(Equal(6.0))

		cx, cy := physics.CenterOfMass(bodies)
		Expect(cx).To(Equal(2.5))
		Expect(cy).To(Equal(1.0))

		Expect(physics.MaxExtent(bodies)).To(Equal(10.0))
		Expect(physics.AngularMomentum(bodies)).To(Equal(4.0))
	})

	It("reports the origin for an empty system", func() {
		cx, cy := physics.CenterOfMass(nil)
		Expect(cx).To(BeZero())
		Expect(cy).To(BeZero())
	})
})
