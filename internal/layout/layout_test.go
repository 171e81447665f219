package layout

import (
	"math"
	"math/rand"
	"testing"

	"raincloud/domain/plot"
	"raincloud/domain/table"
)

func testSpec() plot.LayoutSpec {
	spec := plot.DefaultLayoutSpec()
	spec.GroupSpacing = 2.0
	spec.ViolinBoxGap = 0.3
	spec.BoxPointsGap = 0.4
	spec.PointJitterWidth = 0.2
	return spec
}

func testSeries() (names []string, series map[string]table.GroupSeries) {
	names = []string{"A", "B", "C"}
	series = map[string]table.GroupSeries{
		"A": {1, 2, 3},
		"B": {4, 5},
		"C": {},
	}
	return names, series
}

func TestCompute_AnchorSpacingAndOrder(t *testing.T) {
	names, series := testSeries()
	spec := testSpec()

	positions := Compute(names, spec, series, rand.New(rand.NewSource(1)))
	if len(positions) != 3 {
		t.Fatalf("expected 3 anchor sets, got %d", len(positions))
	}

	for i, name := range names {
		pos, ok := positions[name]
		if !ok {
			t.Fatalf("missing positions for %q", name)
		}
		want := float64(i) * spec.GroupSpacing
		if pos.ViolinAnchor != want {
			t.Fatalf("group %q: violin anchor %g, want %g", name, pos.ViolinAnchor, want)
		}
		if got := pos.BoxAnchor - pos.ViolinAnchor; got != spec.ViolinBoxGap {
			t.Fatalf("group %q: box offset %g, want exactly %g", name, got, spec.ViolinBoxGap)
		}
	}
}

func TestCompute_PointAnchorsStayInJitterBand(t *testing.T) {
	names, series := testSeries()

	for _, side := range []plot.Side{plot.SideLeft, plot.SideRight} {
		spec := testSpec()
		spec.ViolinSide = side
		direction := side.JitterDirection()

		positions := Compute(names, spec, series, rand.New(rand.NewSource(7)))
		for name, pos := range positions {
			if len(pos.PointAnchors) != series[name].Len() {
				t.Fatalf("group %q: %d point anchors for %d values", name, len(pos.PointAnchors), series[name].Len())
			}
			center := pos.BoxAnchor + direction*spec.BoxPointsGap
			half := spec.PointJitterWidth / 2
			for _, p := range pos.PointAnchors {
				if math.Abs(p-center) > half {
					t.Fatalf("side %s group %q: point %g outside %g +/- %g", side, name, p, center, half)
				}
			}
		}
	}
}

func TestCompute_JitterDirectionFlipsWithSide(t *testing.T) {
	names := []string{"G"}
	series := map[string]table.GroupSeries{"G": {1, 2, 3, 4}}

	left := testSpec()
	left.ViolinSide = plot.SideLeft
	right := testSpec()
	right.ViolinSide = plot.SideRight

	leftPos := Compute(names, left, series, rand.New(rand.NewSource(3)))["G"]
	rightPos := Compute(names, right, series, rand.New(rand.NewSource(3)))["G"]

	for _, p := range leftPos.PointAnchors {
		if p <= leftPos.BoxAnchor {
			t.Fatalf("left-side violin must push points right of the box, got %g vs box %g", p, leftPos.BoxAnchor)
		}
	}
	for _, p := range rightPos.PointAnchors {
		if p >= rightPos.BoxAnchor {
			t.Fatalf("right-side violin must push points left of the box, got %g vs box %g", p, rightPos.BoxAnchor)
		}
	}
}

func TestCompute_EmptyInputs(t *testing.T) {
	positions := Compute(nil, testSpec(), nil, rand.New(rand.NewSource(1)))
	if len(positions) != 0 {
		t.Fatalf("expected empty mapping for zero groups, got %d", len(positions))
	}

	positions = Compute([]string{"Empty"}, testSpec(), map[string]table.GroupSeries{}, rand.New(rand.NewSource(1)))
	pos := positions["Empty"]
	if len(pos.PointAnchors) != 0 {
		t.Fatalf("group without observations must have no point anchors, got %d", len(pos.PointAnchors))
	}
	if pos.BoxAnchor != pos.ViolinAnchor+testSpec().ViolinBoxGap {
		t.Fatalf("anchors must still be computed for empty groups")
	}
}

func TestCompute_SeededRunsAreIdentical(t *testing.T) {
	names, series := testSeries()
	spec := testSpec()

	a := Compute(names, spec, series, rand.New(rand.NewSource(99)))
	b := Compute(names, spec, series, rand.New(rand.NewSource(99)))

	for name := range a {
		pa, pb := a[name], b[name]
		if pa.ViolinAnchor != pb.ViolinAnchor || pa.BoxAnchor != pb.BoxAnchor {
			t.Fatalf("group %q: fixed anchors differ between seeded runs", name)
		}
		for k := range pa.PointAnchors {
			if pa.PointAnchors[k] != pb.PointAnchors[k] {
				t.Fatalf("group %q: jitter differs between identically seeded runs", name)
			}
		}
	}
}
