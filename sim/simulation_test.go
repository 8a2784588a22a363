package sim_test

import (
	"bytes"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/sim"
	"github.com/sheikhrachel/cgol/state"
)

func load(text string) *model.Grid {
	GinkgoHelper()
	g, err := state.FromText(text)
	Expect(err).NotTo(HaveOccurred())
	return g
}

func newSim(text string, opts ...sim.Option) *sim.Simulation {
	GinkgoHelper()
	s, err := sim.New(load(text), opts...)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func live(g model.GridView) []model.Point {
	return g.LiveCells()
}

var _ = Describe("Simulation", func() {
	It("rejects a nil grid", func() {
		s, err := sim.New(nil)
		Expect(s).To(BeNil())
		Expect(err).To(MatchError(sim.ErrNilGrid))
	})

	It("starts at generation 0 and counts every step", func() {
		s := newSim("3,3\n1,1")
		Expect(s.CurrentGeneration()).To(Equal(0))
		for i := 1; i <= 5; i++ {
			s.Step()
			Expect(s.CurrentGeneration()).To(Equal(i))
		}
		s.StepN(3)
		Expect(s.CurrentGeneration()).To(Equal(8))
	})

	It("kills a lone cell by underpopulation", func() {
		s := newSim("3,3\n1,1")
		s.Step()
		Expect(live(s.CurrentGrid())).To(BeEmpty())
		Expect(s.IsExtinct()).To(BeTrue())
	})

	It("kills an overcrowded center cell", func() {
		// plus sign: center has 4 neighbors
		s := newSim("3,3\n1,0\n0,1\n1,1\n2,1\n1,2")
		s.Step()
		Expect(s.CurrentGrid().Get(1, 1)).To(BeFalse())
	})

	It("keeps a 2x2 block as a still life", func() {
		s := newSim("4,4\n1,1\n1,2\n2,1\n2,2")
		s.Step()
		Expect(live(s.CurrentGrid())).To(Equal([]model.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}))
		Expect(s.IsStagnant()).To(BeTrue())
	})

	It("keeps a block in the corner alive", func() {
		s := newSim("2,2\n0,0\n0,1\n1,0\n1,1")
		s.StepN(3)
		Expect(s.CurrentGrid().CountLivingCells()).To(Equal(4))
	})

	It("advances a glider by one phase", func() {
		s := newSim("5,5\n1,0\n2,1\n0,2\n1,2\n2,2")
		s.Step()
		Expect(live(s.CurrentGrid())).To(ConsistOf(
			model.Point{X: 0, Y: 1},
			model.Point{X: 2, Y: 1},
			model.Point{X: 1, Y: 2},
			model.Point{X: 2, Y: 2},
			model.Point{X: 1, Y: 3},
		))
	})

	It("translates a glider diagonally after four steps", func() {
		s := newSim("8,8\n1,0\n2,1\n0,2\n1,2\n2,2")
		s.StepN(4)
		Expect(live(s.CurrentGrid())).To(ConsistOf(
			model.Point{X: 2, Y: 1},
			model.Point{X: 3, Y: 2},
			model.Point{X: 1, Y: 3},
			model.Point{X: 2, Y: 3},
			model.Point{X: 3, Y: 3},
		))
		Expect(s.IsStagnant()).To(BeFalse())
	})

	It("does not wrap around the board edges", func() {
		// a blinker on the left edge would gain a cell at x=4 on a torus
		s := newSim("5,5\n0,1\n0,2\n0,3")
		s.Step()
		Expect(live(s.CurrentGrid())).To(ConsistOf(
			model.Point{X: 0, Y: 2},
			model.Point{X: 1, Y: 2},
		))
	})

	It("oscillates a blinker with period 2 and flags it stagnant", func() {
		s := newSim("5,5\n2,1\n2,2\n2,3")
		s.Step()
		Expect(live(s.CurrentGrid())).To(Equal([]model.Point{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}))
		Expect(s.IsStagnant()).To(BeFalse())

		s.Step()
		Expect(live(s.CurrentGrid())).To(Equal([]model.Point{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}}))
		Expect(s.IsStagnant()).To(BeTrue())
	})

	It("does not track stagnation when history is disabled", func() {
		s := newSim("4,4\n1,1\n1,2\n2,1\n2,2", sim.WithHistory(0))
		s.StepN(2)
		Expect(s.IsStagnant()).To(BeFalse())
	})

	It("leaves views of earlier generations untouched", func() {
		s := newSim("5,5\n2,1\n2,2\n2,3", sim.WithPool(nil))
		before := s.CurrentGrid()
		s.Step()
		Expect(before.Get(2, 1)).To(BeTrue())
		Expect(before.Get(1, 2)).To(BeFalse())
	})

	It("hands out snapshots that do not follow later steps", func() {
		s := newSim("5,5\n2,1\n2,2\n2,3", sim.WithPool(model.NewGridPool()))
		snap := s.Snapshot()
		s.Step()
		Expect(snap.Get(2, 1)).To(BeTrue())
		Expect(s.CurrentGrid().Get(2, 1)).To(BeFalse())
	})

	DescribeTable("produces the same generations for any worker count and pooling",
		func(workers int, pooled bool) {
			seed := "12,9\n1,0\n2,1\n0,2\n1,2\n2,2\n8,4\n8,5\n8,6\n5,7\n6,7\n11,8\n0,8"

			reference := newSim(seed, sim.WithWorkers(1))
			opts := []sim.Option{sim.WithWorkers(workers)}
			if pooled {
				opts = append(opts, sim.WithPool(model.NewGridPool()))
			}
			s := newSim(seed, opts...)

			for range 12 {
				reference.Step()
				s.Step()
				Expect(s.CurrentGrid().Hash()).To(Equal(reference.CurrentGrid().Hash()))
			}
		},
		Entry("2 workers", 2, false),
		Entry("4 workers pooled", 4, true),
		Entry("more workers than rows", 32, false),
		Entry("zero workers", 0, true),
	)

	It("logs each generation at debug level", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		s := newSim("3,3\n1,1", sim.WithLogger(logger))
		s.Step()
		Expect(buf.String()).To(ContainSubstring("generation=1"))
	})
})
