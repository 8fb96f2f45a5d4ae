package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rteja/rodsim/internal/forces"
	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/rod"
	"github.com/rteja/rodsim/internal/sim"
)

// axialOscillator builds a soft undamped rod stretched uniformly by eps
// along its axis, so releasing it excites purely axial oscillations.
func axialOscillator(eps float64) (*sim.Collection, *rod.CosseratRod) {
	r, err := rod.NewStraightRod(rod.StraightRodSpec{
		Name:          "oscillator",
		Elements:      4,
		Start:         linalg.Vec{},
		Direction:     linalg.Vec{0, 0, 1},
		Normal:        linalg.Vec{1, 0, 0},
		Length:        1.0,
		Radius:        0.25,
		Density:       1000,
		YoungsModulus: 5000,
		PoissonRatio:  0.5,
	})
	Expect(err).NotTo(HaveOccurred())

	for i := range r.Position {
		r.Position[i][2] *= 1 + eps
	}

	c := sim.NewCollection()
	Expect(c.Append(r)).To(Succeed())
	Expect(c.Finalize()).To(Succeed())
	return c, r
}

// run advances a collection by steps of size dt, failing the test on any
// stepper error. Negative dt runs the dynamics backward.
func run(stepper *sim.Stepper, c *sim.Collection, time, dt float64, steps int) float64 {
	for i := 0; i < steps; i++ {
		var err error
		time, err = stepper.Step(c, time, dt)
		Expect(err).NotTo(HaveOccurred())
	}
	return time
}

var _ = Describe("Symplectic steppers", func() {
	steppers := []*sim.Stepper{sim.PositionVerlet(), sim.PEFRL()}

	Describe("free fall energy balance", func() {
		It("converts potential to kinetic energy exactly", func() {
			const g = -9.81
			r, err := rod.NewStraightRod(rod.StraightRodSpec{
				Name:          "faller",
				Elements:      5,
				Start:         linalg.Vec{0, 1, 0},
				Direction:     linalg.Vec{0, 0, 1},
				Normal:        linalg.Vec{1, 0, 0},
				Length:        0.5,
				Radius:        0.02,
				Density:       1500,
				YoungsModulus: 1e6,
				PoissonRatio:  0.5,
			})
			Expect(err).NotTo(HaveOccurred())

			c := sim.NewCollection()
			Expect(c.Append(r)).To(Succeed())
			Expect(c.AddForcing(forces.NewGravity(r, linalg.Vec{0, g, 0}))).To(Succeed())
			Expect(c.Finalize()).To(Succeed())

			startHeight := r.CenterOfMass()[1]
			result, err := sim.Integrate(context.Background(), sim.PositionVerlet(), c, sim.Config{
				FinalTime:   0.5,
				TotalSteps:  500,
				RecordEvery: 500,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(500))

			drop := startHeight - r.CenterOfMass()[1]
			kinetic := r.TranslationalEnergy()
			potentialLost := r.TotalMass() * (-g) * drop
			Expect(kinetic).To(BeNumerically("~", potentialLost, 1e-9*potentialLost))

			// Uniform acceleration never loads the rod internally.
			Expect(r.ShearEnergy()).To(BeNumerically("~", 0, 1e-12))
			Expect(r.RotationalEnergy()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("time reversal", func() {
		It("returns a stretched rod to its initial state", func() {
			for _, stepper := range steppers {
				c, r := axialOscillator(0.01)
				initial := linalg.CopyVecs(r.Position)

				const dt = 1e-3
				const steps = 100
				time := run(stepper, c, 0, dt, steps)
				time = run(stepper, c, time, -dt, steps)

				Expect(math.Abs(time)).To(BeNumerically("<", 1e-12), stepper.Name())
				for i := range initial {
					err := r.Position[i].Sub(initial[i]).Norm()
					Expect(err).To(BeNumerically("<", 1e-10), stepper.Name())
					Expect(r.Velocity[i].Norm()).To(BeNumerically("<", 1e-10), stepper.Name())
				}
			}
		})
	})

	Describe("energy conservation", func() {
		It("holds total energy of an axial oscillation", func() {
			for _, stepper := range steppers {
				c, r := axialOscillator(0.005)
				initial := r.TranslationalEnergy() + r.ShearEnergy()

				time := 0.0
				for i := 0; i < 5000; i++ {
					time = run(stepper, c, time, 1e-3, 1)
					total := r.TranslationalEnergy() + r.ShearEnergy()
					drift := math.Abs(total-initial) / initial
				Expect(drift).To(BeNumerically("<", 0.01), stepper.Name())
				}
			}
		})
	})

	Describe("convergence order", func() {
		// Final state of the oscillator after one second, against a
		// reference trajectory at fifty-fold finer resolution.
		finalState := func(stepper *sim.Stepper, steps int) []linalg.Vec {
			c, r := axialOscillator(0.01)
			run(stepper, c, 0, 1.0/float64(steps), steps)
			return linalg.CopyVecs(r.Position)
		}
		maxDiff := func(a, b []linalg.Vec) float64 {
			worst := 0.0
			for i := range a {
				if d := a[i].Sub(b[i]).Norm(); d > worst {
					worst = d
				}
			}
			return worst
		}

		It("resolves the trajectory far more accurately with the fourth-order scheme", func() {
			reference := finalState(sim.PositionVerlet(), 10000)
			verletErr := maxDiff(finalState(sim.PositionVerlet(), 200), reference)
			pefrlErr := maxDiff(finalState(sim.PEFRL(), 200), reference)

			Expect(verletErr).To(BeNumerically(">", 0))
			Expect(pefrlErr).To(BeNumerically("<", verletErr/10))
		})
	})

	Describe("torque-free rigid sphere", func() {
		It("keeps the spin vector constant", func() {
			s, err := rod.NewSphere("spinner", linalg.Vec{}, 0.1, 2000)
			Expect(err).NotTo(HaveOccurred())
			s.Omega = linalg.Vec{1, 2, 3}
			initialEnergy := s.RotationalEnergy()

			c := sim.NewCollection()
			Expect(c.Append(s)).To(Succeed())
			Expect(c.Finalize()).To(Succeed())

			run(sim.PositionVerlet(), c, 0, 1e-4, 1000)

			Expect(s.Omega[0]).To(BeNumerically("~", 1, 1e-12))
			Expect(s.Omega[1]).To(BeNumerically("~", 2, 1e-12))
			Expect(s.Omega[2]).To(BeNumerically("~", 3, 1e-12))
			Expect(s.RotationalEnergy()).To(BeNumerically("~", initialEnergy, 1e-12*initialEnergy))

			// The frame itself must stay orthonormal through the transport.
			q := s.Director
			qqT := q.MulTranspose(q)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					want := 0.0
					if i == j {
						want = 1.0
					}
					Expect(qqT[i][j]).To(BeNumerically("~", want, 1e-12))
				}
			}
		})
	})
})
