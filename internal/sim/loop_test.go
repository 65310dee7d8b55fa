package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/render"
	"github.com/san-kum/dpsim/internal/sim"
)

var _ = Describe("Simulator", func() {
	var (
		s   *sim.Simulator
		rec *render.Recorder
	)

	BeforeEach(func() {
		state, err := pendulum.New(pendulum.ReferenceParams())
		Expect(err).NotTo(HaveOccurred())
		s = sim.New(state, pendulum.NewIntegrator())
		rec = &render.Recorder{}
		s.AttachRenderer(render.NewRenderer(render.DefaultViewport()), rec)
	})

	Describe("a single tick", func() {
		It("steps the integrator before drawing", func() {
			_, err := s.Tick()
			Expect(err).NotTo(HaveOccurred())

			snap := s.Snapshot()
			Expect(snap.Angle1).To(BeNumerically("~", math.Pi/2-0.005, 1e-12))
			Expect(snap.Velocity1).To(BeNumerically("~", -0.005, 1e-12))

			// the drawn frame reflects the post-step state
			_, bob2 := pendulum.Endpoints(snap)
			vp := render.DefaultViewport()
			want := vp.ToScreen(bob2)
			Expect(rec.Commands).To(HaveLen(5))
			Expect(rec.Commands[4].Kind).To(Equal(render.CmdDisk))
			Expect(rec.Commands[4].From.X).To(BeNumerically("~", want.X, 1e-9))
			Expect(rec.Commands[4].From.Y).To(BeNumerically("~", want.Y, 1e-9))
		})

		It("leaves masses and lengths untouched", func() {
			for i := 0; i < 100; i++ {
				s.Tick()
			}
			snap := s.Snapshot()
			Expect(snap.Mass1).To(Equal(40.0))
			Expect(snap.Mass2).To(Equal(40.0))
			Expect(snap.Length1).To(Equal(200.0))
			Expect(snap.Length2).To(Equal(200.0))
		})
	})

	Describe("a headless run", func() {
		It("keeps the reference pendulum finite and bounded", func() {
			result, err := s.Run(context.Background(), sim.Config{Ticks: 10000, SampleEvery: 100})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())
			Expect(result.TicksTaken).To(Equal(10000))
			Expect(result.EnergyDrift).To(BeNumerically("<", 4))
			for _, e := range result.Energies {
				Expect(math.IsNaN(e)).To(BeFalse())
			}
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := s.Run(ctx, sim.Config{Ticks: 10})
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.TicksTaken).To(BeZero())
		})
	})

	Describe("two runs from the same start", func() {
		It("produce identical trajectories", func() {
			other, err := pendulum.New(pendulum.ReferenceParams())
			Expect(err).NotTo(HaveOccurred())
			twin := sim.New(other, pendulum.NewIntegrator())

			a, err := s.Run(context.Background(), sim.Config{Ticks: 500, SampleEvery: 1})
			Expect(err).NotTo(HaveOccurred())
			b, err := twin.Run(context.Background(), sim.Config{Ticks: 500, SampleEvery: 1})
			Expect(err).NotTo(HaveOccurred())

			Expect(a.States).To(Equal(b.States))
		})
	})
})
