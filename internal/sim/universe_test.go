package sim_test

import (
	"context"
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
)

func innerPlanets() *sim.Universe {
	return sim.NewUniverse(2.50e11, []*physics.Body{
		physics.NewBody(1.4960e11, 0, 0, 2.9800e4, 5.9740e24, "earth.gif"),
		physics.NewBody(2.2790e11, 0, 0, 2.4100e4, 6.4190e23, "mars.gif"),
		physics.NewBody(5.7900e10, 0, 0, 4.7900e4, 3.3020e23, "mercury.gif"),
		physics.NewBody(0, 0, 0, 0, 1.9890e30, "sun.gif"),
		physics.NewBody(1.0820e11, 0, 0, 3.5000e4, 4.8690e24, "venus.gif"),
	})
}

func ring(n int) *sim.Universe {
	bodies := make([]*physics.Body, n)
	for i := range bodies {
		angle := 2 * math.Pi * float64(i) / float64(n)
		bodies[i] = physics.NewBody(1e9*math.Cos(angle), 1e9*math.Sin(angle),
			-1e3*math.Sin(angle), 1e3*math.Cos(angle), 1e25*float64(1+i%3), fmt.Sprintf("b%d", i))
	}
	return sim.NewUniverse(2e9, bodies)
}

type stepCounter struct{ steps int }

func (c *stepCounter) OnStep(*sim.Universe, float64) { c.steps++ }

var _ = Describe("Universe", func() {
	It("computes every force from the pre-step state", func() {
		u := innerPlanets()
		before := u.Clone()

		wantX := make([]float64, u.Len())
		wantY := make([]float64, u.Len())
		for i, b := range before.Bodies {
			wantX[i] = b.NetForceX(before.Bodies)
			wantY[i] = b.NetForceY(before.Bodies)
		}

		u.Step(25000)

		for i, b := range u.Bodies {
			ref := before.Bodies[i]
			ref.Advance(25000, wantX[i], wantY[i])
			Expect(b.X()).To(Equal(ref.X()), b.Name())
			Expect(b.Y()).To(Equal(ref.Y()), b.Name())
			Expect(b.VX()).To(Equal(ref.VX()), b.Name())
			Expect(b.VY()).To(Equal(ref.VY()), b.Name())
		}
	})

	It("gives identical results sequentially and in parallel", func() {
		seq := ring(64)
		par := seq.Clone()
		par.Workers = 4

		for i := 0; i < 50; i++ {
			seq.Step(60)
			par.Step(60)
		}

		Expect(par.State()).To(Equal(seq.State()))
	})

	It("clones into independent bodies", func() {
		u := innerPlanets()
		c := u.Clone()
		c.Step(1000)

		Expect(u.Bodies[0].X()).To(Equal(1.4960e11))
		Expect(c.Bodies[0]).NotTo(BeIdenticalTo(u.Bodies[0]))
	})

	It("flattens state in collection order", func() {
		u := innerPlanets()
		s := u.State()
		Expect(s.NumBodies()).To(Equal(5))

		x, y, vx, vy := s.Body(1)
		Expect([]float64{x, y, vx, vy}).To(Equal([]float64{2.2790e11, 0, 0, 2.4100e4}))
	})

	It("reports the first non-finite body", func() {
		u := sim.NewUniverse(1, []*physics.Body{
			physics.NewBody(0, 0, 0, 0, 1, "a"),
			physics.NewBody(0, 0, 0, 0, 1, "b"),
		})
		Expect(u.FirstInvalid()).To(Equal(-1))

		u.Step(1)
		Expect(u.FirstInvalid()).To(Equal(0))
	})
})

var _ = Describe("Simulator", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = sim.New()
	})

	It("takes ceil(duration/dt) steps and records every state", func() {
		u := innerPlanets()
		cfg := sim.Config{Dt: 25000, Duration: 100000}

		res, err := s.Run(context.Background(), u, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(4))
		Expect(res.States).To(HaveLen(5))
		Expect(res.Times).To(Equal([]float64{0, 25000, 50000, 75000, 100000}))
		Expect(res.Names).To(ContainElement("sun.gif"))
		Expect(res.Masses[3]).To(Equal(1.9890e30))
		Expect(res.Final()).To(Equal(u.State()))
	})

	It("takes a full final step for a partial remainder", func() {
		cfg := sim.Config{Dt: 25000, Duration: 157788000}
		Expect(cfg.Steps()).To(Equal(6312))

		cfg = sim.Config{Dt: 0.1, Duration: 1}
		Expect(cfg.Steps()).To(Equal(10))
	})

	It("thins recorded states but always keeps the last", func() {
		u := innerPlanets()
		cfg := sim.Config{Dt: 1000, Duration: 7000, RecordEvery: 3}

		res, err := s.Run(context.Background(), u, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times).To(Equal([]float64{0, 3000, 6000, 7000}))
	})

	It("keeps energy drift small for the inner planets", func() {
		u := innerPlanets()
		cfg := sim.Config{Dt: 25000, Duration: 3.15e7}

		res, err := s.Run(context.Background(), u, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.EnergyDrift).To(BeNumerically("<", 1e-2))
	})

	It("notifies observers once per step", func() {
		obs := &stepCounter{}
		s.AddObserver(obs)

		_, err := s.Run(context.Background(), innerPlanets(), sim.Config{Dt: 1, Duration: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.steps).To(Equal(10))
	})

	It("rejects invalid configurations", func() {
		for _, cfg := range []sim.Config{
			{Dt: 0, Duration: 1},
			{Dt: -1, Duration: 1},
			{Dt: 1, Duration: 0},
		} {
			_, err := s.Run(context.Background(), innerPlanets(), cfg)
			Expect(errors.Is(err, sim.ErrInvalidStep)).To(BeTrue())
		}

		_, err := s.Run(context.Background(), sim.NewUniverse(1, nil), sim.Config{Dt: 1, Duration: 1})
		Expect(err).To(MatchError(sim.ErrEmptyUniverse))
	})

	It("stops at the first non-finite state when validating", func() {
		u := sim.NewUniverse(1, []*physics.Body{
			physics.NewBody(0, 0, 0, 0, 1, "a"),
			physics.NewBody(0, 0, 0, 0, 1, "b"),
		})

		res, err := s.Run(context.Background(), u, sim.Config{Dt: 1, Duration: 10, ValidateState: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(1))
		Expect(res.Errors).To(HaveLen(1))

		var simErr *sim.SimulationError
		Expect(errors.As(res.Errors[0], &simErr)).To(BeTrue())
		Expect(simErr.Body).To(Equal("a"))
		Expect(errors.Is(simErr, sim.ErrInvalidState)).To(BeTrue())
	})

	It("lets NaN propagate when not validating", func() {
		u := sim.NewUniverse(1, []*physics.Body{
			physics.NewBody(0, 0, 0, 0, 1, "a"),
			physics.NewBody(0, 0, 0, 0, 1, "b"),
		})

		res, err := s.Run(context.Background(), u, sim.Config{Dt: 1, Duration: 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(3))
		Expect(res.Final().IsValid()).To(BeFalse())
	})

	It("returns early when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := s.Run(ctx, innerPlanets(), sim.Config{Dt: 1, Duration: 10})
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.StepsTaken).To(BeZero())
	})

	It("stops RunWithCallback when the callback declines", func() {
		calls := 0
		err := s.RunWithCallback(context.Background(), innerPlanets(), sim.Config{Dt: 1, Duration: 100},
			func(u *sim.Universe, t float64) bool {
				calls++
				return calls < 5
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(5))
	})

	It("calls back once more after the last step", func() {
		var times []float64
		err := s.RunWithCallback(context.Background(), innerPlanets(), sim.Config{Dt: 2, Duration: 6},
			func(u *sim.Universe, t float64) bool {
				times = append(times, t)
				return true
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(times).To(Equal([]float64{0, 2, 4, 6}))
	})
})

var _ = Describe("ParallelFor", func() {
	It("covers every index exactly once", func() {
		hits := make([]int, 103)
		sim.ParallelFor(len(hits), 4, 8, func(start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			Expect(h).To(Equal(1), "index %d", i)
		}
	})

	It("runs inline for a single worker", func() {
		var chunks [][2]int
		sim.ParallelFor(10, 1, 1, func(start, end int) {
			chunks = append(chunks, [2]int{start, end})
		})
		Expect(chunks).To(Equal([][2]int{{0, 10}}))
	})
})
