package state_test

import (
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/cgol/model"
	"github.com/sheikhrachel/cgol/state"
)

type fakeReader struct {
	files map[string]string
}

func (f fakeReader) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(data), nil
}

func liveSet(g model.GridView) map[model.Point]bool {
	set := make(map[model.Point]bool)
	for _, p := range g.LiveCells() {
		set[p] = true
	}
	return set
}

var _ = Describe("FromText", func() {
	It("loads a 3x3 board with only (0,0) live", func() {
		g, err := state.FromText("3,3\n0,0")
		Expect(err).NotTo(HaveOccurred())

		w, h := g.Dimensions()
		Expect(w).To(Equal(3))
		Expect(h).To(Equal(3))
		for y := range 3 {
			for x := range 3 {
				Expect(g.Get(x, y)).To(Equal(x == 0 && y == 0), "cell (%d,%d)", x, y)
			}
		}
	})

	It("uses x as the column and y as the row", func() {
		g, err := state.FromText("4,2\n3,1\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Get(3, 1)).To(BeTrue())
		Expect(g.CountLivingCells()).To(Equal(1))
	})

	It("accepts a trailing newline and CRLF line endings", func() {
		g, err := state.FromText("3,3\r\n1,1\r\n2,2\r\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(liveSet(g)).To(Equal(map[model.Point]bool{{X: 1, Y: 1}: true, {X: 2, Y: 2}: true}))
	})

	It("skips empty lines between records", func() {
		g, err := state.FromText("\n3,3\n\n0,1\r\n\r\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Get(0, 1)).To(BeTrue())
	})

	It("treats duplicate coordinates as idempotent", func() {
		g, err := state.FromText("3,3\n1,1\n1,1\n1,1")
		Expect(err).NotTo(HaveOccurred())
		Expect(g.CountLivingCells()).To(Equal(1))
	})

	It("loads a dimension line with no live cells", func() {
		g, err := state.FromText("2,5\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(g.CountLivingCells()).To(BeZero())
	})

	DescribeTable("rejects bad input",
		func(text string, want error, kind model.Kind) {
			g, err := state.FromText(text)
			Expect(g).To(BeNil())
			Expect(err).To(MatchError(want))
			Expect(model.KindOf(err)).To(Equal(kind))
		},
		Entry("empty text", "", model.ErrEmptyInput, model.KindEmptyInput),
		Entry("only a newline", "\n", model.ErrEmptyInput, model.KindEmptyInput),
		Entry("only empty lines", "\n\r\n\n", model.ErrEmptyInput, model.KindEmptyInput),
		Entry("whitespace-only line", "3,3\n  \n", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("tab-only line before dimensions", "\t\n3,3", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("plus-signed dimensions", "+3,+3", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("plus-signed coordinate", "3,3\n+1,1", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("non-pair record", "3,3\nbad", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("three fields", "3,3\n1,1,1", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("one field dimension line", "3", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("non-integer dimension", "a,3", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("whitespace in field", "3, 3", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("float coordinate", "3,3\n1.5,1", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("overflowing integer", "3,3\n99999999999999999999,1", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("invalid UTF-8", "3,3\n\xff,1", model.ErrInvalidFormat, model.KindInvalidFormat),
		Entry("zero width", "0,3", model.ErrInvalidDimensions, model.KindInvalidDimensions),
		Entry("zero height", "3,0\n", model.ErrInvalidDimensions, model.KindInvalidDimensions),
		Entry("negative width", "-2,3", model.ErrInvalidDimensions, model.KindInvalidDimensions),
		Entry("max int height", "1,9223372036854775807", model.ErrInvalidDimensions, model.KindInvalidDimensions),
		Entry("max int width", "9223372036854775807,1", model.ErrInvalidDimensions, model.KindInvalidDimensions),
		Entry("max int width with a cell", "9223372036854775807,1\n0,0", model.ErrInvalidDimensions, model.KindInvalidDimensions),
		Entry("above the cell limit", "8193,8193", model.ErrInvalidDimensions, model.KindInvalidDimensions),
		Entry("coordinate past the board", "3,3\n5,5", model.ErrOutOfBounds, model.KindOutOfBounds),
		Entry("x equal to width", "3,3\n3,0", model.ErrOutOfBounds, model.KindOutOfBounds),
		Entry("negative coordinate", "3,3\n0,-1", model.ErrOutOfBounds, model.KindOutOfBounds),
	)

	It("fails on the first bad line instead of skipping it", func() {
		_, err := state.FromText("3,3\n0,0\nbad\n9,9")
		Expect(err).To(MatchError(model.ErrInvalidFormat))
		Expect(err.Error()).To(ContainSubstring("line 3"))
	})

	It("reports the offending coordinate and board size", func() {
		_, err := state.FromText("3,3\n0,0\n5,5")

		var oob *model.OutOfBoundsError
		Expect(errors.As(err, &oob)).To(BeTrue())
		Expect(*oob).To(Equal(model.OutOfBoundsError{X: 5, Y: 5, Width: 3, Height: 3}))
		Expect(err.Error()).To(ContainSubstring("line 3"))
	})

	It("validates dimensions before reading cell records", func() {
		_, err := state.FromText("0,0\nbad")
		Expect(err).To(MatchError(model.ErrInvalidDimensions))
	})
})

var _ = Describe("Parse", func() {
	It("keeps live cells in file order", func() {
		layout, err := state.Parse("5,4\n4,3\n0,0\n2,1")
		Expect(err).NotTo(HaveOccurred())
		Expect(layout.Width).To(Equal(5))
		Expect(layout.Height).To(Equal(4))
		Expect(layout.Live).To(Equal([]model.Point{{X: 4, Y: 3}, {X: 0, Y: 0}, {X: 2, Y: 1}}))
	})

	It("rejects hand-built layouts with bad cells on Build", func() {
		layout := &state.Layout{Width: 2, Height: 2, Live: []model.Point{{X: 2, Y: 0}}}
		g, err := layout.Build()
		Expect(g).To(BeNil())
		Expect(err).To(MatchError(model.ErrOutOfBounds))
	})
})

var _ = Describe("FromFile", func() {
	It("reads through the supplied reader", func() {
		r := fakeReader{files: map[string]string{"glider.state": "5,5\n1,0\n2,1\n0,2\n1,2\n2,2\n"}}
		g, err := state.FromFile("glider.state", r)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.CountLivingCells()).To(Equal(5))
	})

	It("wraps read failures as IoFailure", func() {
		g, err := state.FromFile("missing.state", fakeReader{})
		Expect(g).To(BeNil())
		Expect(err).To(MatchError(model.ErrIO))
		Expect(err).To(MatchError(os.ErrNotExist))
		Expect(model.KindOf(err)).To(Equal(model.KindIO))
		Expect(err.Error()).To(ContainSubstring("missing.state"))
	})

	It("reads from disk by default", func() {
		path := filepath.Join(GinkgoT().TempDir(), "block.state")
		Expect(os.WriteFile(path, []byte("4,4\n1,1\n1,2\n2,1\n2,2\n"), 0o644)).To(Succeed())

		g, err := state.FromFile(path, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.CountLivingCells()).To(Equal(4))
	})

	It("propagates parse errors from file contents", func() {
		r := fakeReader{files: map[string]string{"empty.state": ""}}
		_, err := state.FromFile("empty.state", r)
		Expect(err).To(MatchError(model.ErrEmptyInput))
	})
})

var _ = Describe("Settings", func() {
	It("builds the same grid as the text loader", func() {
		fromSettings, err := state.NewSettings().
			SetDimensions(50, 50).
			SetLiveCell(1, 0).
			SetLiveCell(2, 1).
			SetLiveCell(0, 2).
			SetLiveCell(1, 2).
			SetLiveCell(2, 2).
			Build()
		Expect(err).NotTo(HaveOccurred())

		fromText, err := state.FromText("50,50\n1,0\n2,1\n0,2\n1,2\n2,2\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(fromSettings.Equal(fromText)).To(BeTrue())
	})

	It("requires dimensions", func() {
		_, err := state.NewSettings().SetLiveCell(0, 0).Build()
		Expect(err).To(MatchError(model.ErrInvalidDimensions))
	})

	It("refuses boards above the cell limit instead of allocating them", func() {
		g, err := state.NewSettings().SetDimensions(math.MaxInt, math.MaxInt).Build()
		Expect(g).To(BeNil())
		Expect(err).To(MatchError(model.ErrInvalidDimensions))
	})

	It("rejects live cells outside the board", func() {
		_, err := state.NewSettings().SetDimensions(3, 3).SetLiveCell(3, 1).Build()
		Expect(err).To(MatchError(model.ErrOutOfBounds))
	})
})

var _ = Describe("Format", func() {
	It("round-trips through FromText", func() {
		original, err := state.FromText("6,4\n5,3\n0,0\n2,1\n")
		Expect(err).NotTo(HaveOccurred())

		text := state.Format(original)
		Expect(text).To(Equal("6,4\n0,0\n2,1\n5,3\n"))

		again, err := state.FromText(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Equal(original)).To(BeTrue())
	})
})
