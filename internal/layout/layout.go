package layout

import (
	"math/rand"

	"raincloud/domain/plot"
	"raincloud/domain/table"
)

// Compute derives the horizontal anchor positions for every group's three
// primitives. Pure geometry: group order, spacing and gaps fully determine
// the violin and box anchors; only the per-point jitter draws from rng.
//
// The i-th group in groupNames sits at i*GroupSpacing regardless of its
// content. Points are offset from the box anchor away from the violin lobe,
// then spread by PointJitterWidth*(U-0.5) per observation.
func Compute(groupNames []string, spec plot.LayoutSpec, series map[string]table.GroupSeries, rng *rand.Rand) map[string]plot.GroupPositions {
	positions := make(map[string]plot.GroupPositions, len(groupNames))
	direction := spec.ViolinSide.JitterDirection()

	for i, name := range groupNames {
		violinAnchor := float64(i) * spec.GroupSpacing
		boxAnchor := violinAnchor + spec.ViolinBoxGap

		values := series[name]
		pointAnchors := make([]float64, len(values))
		base := boxAnchor + direction*spec.BoxPointsGap
		for k := range values {
			pointAnchors[k] = base + spec.PointJitterWidth*(rng.Float64()-0.5)
		}

		positions[name] = plot.GroupPositions{
			ViolinAnchor: violinAnchor,
			BoxAnchor:    boxAnchor,
			PointAnchors: pointAnchors,
		}
	}
	return positions
}
