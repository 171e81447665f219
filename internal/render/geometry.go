package render

import (
	"sort"

	mstats "github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
	"github.com/montanaflynn/stats"

	"raincloud/domain/plot"
)

// ViolinOutline traces one group's density lobe in data coordinates. Xs and
// Ys are parallel; the first and last points sit on the anchor line so the
// closed polygon has a flat edge there.
type ViolinOutline struct {
	Xs []float64
	Ys []float64
}

// BoxGlyph is one group's box-and-whisker geometry in data coordinates.
type BoxGlyph struct {
	Center      float64
	HalfWidth   float64
	Q1          float64
	Median      float64
	Q3          float64
	WhiskerLow  float64
	WhiskerHigh float64
}

// Violin estimates the group's density with a Gaussian KDE (Scott
// bandwidth) and mirrors it onto the configured side of the anchor, scaled
// so the lobe's peak reaches half the violin width. Returns false when the
// group has too few or degenerate values to carry a density.
func Violin(values []float64, anchor float64, spec plot.LayoutSpec, grid int) (ViolinOutline, bool) {
	if len(values) < 2 || grid < 2 {
		return ViolinOutline{}, false
	}

	sample := mstats.Sample{Xs: values}
	bw := mstats.BandwidthScott(sample)
	if bw <= 0 {
		return ViolinOutline{}, false
	}

	kde := mstats.KDE{Sample: sample, Bandwidth: bw}
	lo, hi := sample.Bounds()
	lo, hi = lo-3*bw, hi+3*bw

	ys := vec.Linspace(lo, hi, grid)
	dens := vec.Map(kde.PDF, ys)

	peak := 0.0
	for _, d := range dens {
		if d > peak {
			peak = d
		}
	}
	if peak <= 0 {
		return ViolinOutline{}, false
	}

	dir := -1.0
	if spec.ViolinSide == plot.SideRight {
		dir = 1.0
	}
	scale := spec.ViolinWidth / 2 / peak

	out := ViolinOutline{
		Xs: make([]float64, 0, grid+2),
		Ys: make([]float64, 0, grid+2),
	}
	out.Xs = append(out.Xs, anchor)
	out.Ys = append(out.Ys, lo)
	for i, y := range ys {
		out.Xs = append(out.Xs, anchor+dir*dens[i]*scale)
		out.Ys = append(out.Ys, y)
	}
	out.Xs = append(out.Xs, anchor)
	out.Ys = append(out.Ys, hi)
	return out, true
}

// Box computes the hinge box with Tukey whiskers: the whiskers reach the
// most extreme observations still within 1.5 IQR of the hinges. Returns
// false below two observations, where the hinges are undefined.
func Box(values []float64, anchor float64, spec plot.LayoutSpec) (BoxGlyph, bool) {
	if len(values) < 2 {
		return BoxGlyph{}, false
	}

	q, err := stats.Quartile(stats.Float64Data(values))
	if err != nil {
		return BoxGlyph{}, false
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	iqr := q.Q3 - q.Q1
	loFence, hiFence := q.Q1-1.5*iqr, q.Q3+1.5*iqr
	low, high := sorted[len(sorted)-1], sorted[0]
	for _, v := range sorted {
		if v >= loFence {
			low = v
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= hiFence {
			high = sorted[i]
			break
		}
	}

	return BoxGlyph{
		Center:      anchor,
		HalfWidth:   spec.BoxWidth / 2,
		Q1:          q.Q1,
		Median:      q.Q2,
		Q3:          q.Q3,
		WhiskerLow:  low,
		WhiskerHigh: high,
	}, true
}
