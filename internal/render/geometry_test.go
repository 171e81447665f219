package render

import (
	"math"
	"testing"

	"raincloud/domain/plot"
)

func renderSpec() plot.LayoutSpec {
	spec := plot.DefaultLayoutSpec()
	spec.ViolinWidth = 0.8
	spec.BoxWidth = 0.3
	return spec
}

func TestViolin_LobeStaysOnConfiguredSide(t *testing.T) {
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	anchor := 2.0

	for _, side := range []plot.Side{plot.SideLeft, plot.SideRight} {
		spec := renderSpec()
		spec.ViolinSide = side

		outline, ok := Violin(values, anchor, spec, 64)
		if !ok {
			t.Fatalf("side %s: expected a violin", side)
		}
		if outline.Xs[0] != anchor || outline.Xs[len(outline.Xs)-1] != anchor {
			t.Fatalf("side %s: outline must start and end on the anchor line", side)
		}
		for _, x := range outline.Xs {
			if side == plot.SideLeft && x > anchor+1e-12 {
				t.Fatalf("left violin leaked right of anchor: %g", x)
			}
			if side == plot.SideRight && x < anchor-1e-12 {
				t.Fatalf("right violin leaked left of anchor: %g", x)
			}
		}
	}
}

func TestViolin_PeakReachesHalfWidth(t *testing.T) {
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	spec := renderSpec()

	outline, ok := Violin(values, 0, spec, 128)
	if !ok {
		t.Fatal("expected a violin")
	}

	maxDev := 0.0
	for _, x := range outline.Xs {
		if d := math.Abs(x); d > maxDev {
			maxDev = d
		}
	}
	if !approxRender(maxDev, spec.ViolinWidth/2, 1e-9) {
		t.Fatalf("peak should reach half the violin width: %g vs %g", maxDev, spec.ViolinWidth/2)
	}
}

func TestViolin_SpansBeyondDataRange(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14}

	outline, ok := Violin(values, 0, renderSpec(), 64)
	if !ok {
		t.Fatal("expected a violin")
	}
	if outline.Ys[0] >= 10 {
		t.Fatalf("outline should extend below the data, starts at %g", outline.Ys[0])
	}
	if outline.Ys[len(outline.Ys)-1] <= 14 {
		t.Fatalf("outline should extend above the data, ends at %g", outline.Ys[len(outline.Ys)-1])
	}
	for i := 1; i < len(outline.Ys); i++ {
		if outline.Ys[i] < outline.Ys[i-1] {
			t.Fatalf("outline Ys must ascend, broke at %d", i)
		}
	}
}

func TestViolin_PeakSitsNearMode(t *testing.T) {
	values := []float64{1, 3, 3, 3, 3, 3, 5}

	outline, ok := Violin(values, 0, renderSpec(), 256)
	if !ok {
		t.Fatal("expected a violin")
	}

	peakY, maxDev := 0.0, 0.0
	for i, x := range outline.Xs {
		if d := math.Abs(x); d > maxDev {
			maxDev = d
			peakY = outline.Ys[i]
		}
	}
	if math.Abs(peakY-3) > 0.5 {
		t.Fatalf("density peak should sit near the mode 3, got %g", peakY)
	}
}

func TestViolin_DegenerateInputs(t *testing.T) {
	spec := renderSpec()

	if _, ok := Violin([]float64{7}, 0, spec, 64); ok {
		t.Fatal("a single value cannot carry a density")
	}
	if _, ok := Violin([]float64{5, 5, 5}, 0, spec, 64); ok {
		t.Fatal("a constant group has no bandwidth")
	}
	if _, ok := Violin(nil, 0, spec, 64); ok {
		t.Fatal("no values, no violin")
	}
}

func TestBox_TukeyWhiskersClampToData(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 100}

	box, ok := Box(values, 1.5, renderSpec())
	if !ok {
		t.Fatal("expected a box")
	}
	if box.Center != 1.5 || !approxRender(box.HalfWidth, 0.15, 1e-12) {
		t.Fatalf("unexpected box frame: %+v", box)
	}
	if box.Q1 != 2 || box.Median != 3.5 || box.Q3 != 5 {
		t.Fatalf("unexpected hinges: %+v", box)
	}
	// 100 is past the upper fence Q3+1.5*IQR=9.5, so the whisker stops at 5.
	if box.WhiskerHigh != 5 {
		t.Fatalf("expected upper whisker clamped to 5, got %g", box.WhiskerHigh)
	}
	if box.WhiskerLow != 1 {
		t.Fatalf("expected lower whisker at the minimum, got %g", box.WhiskerLow)
	}
}

func TestBox_ConstantPairCollapses(t *testing.T) {
	box, ok := Box([]float64{4, 4}, 0, renderSpec())
	if !ok {
		t.Fatal("two values still make a box")
	}
	if box.Q1 != 4 || box.Median != 4 || box.Q3 != 4 || box.WhiskerLow != 4 || box.WhiskerHigh != 4 {
		t.Fatalf("constant pair should collapse to a line: %+v", box)
	}
}

func TestBox_SingletonSkipped(t *testing.T) {
	if _, ok := Box([]float64{7}, 0, renderSpec()); ok {
		t.Fatal("hinges are undefined for a single value")
	}
}

func approxRender(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}
