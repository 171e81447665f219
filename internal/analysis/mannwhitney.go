package analysis

import (
	"fmt"

	mstats "github.com/aclements/go-moremath/stats"

	"raincloud/domain/core"
	"raincloud/domain/table"
)

// MannWhitneyResult holds the two-sided rank test outcome.
type MannWhitneyResult struct {
	U float64
	P float64
}

// MannWhitneyU runs the two-sided Mann-Whitney U test. Small tie-free
// samples get the exact U distribution, larger or tied samples the
// tie-corrected normal approximation. Samples where every value is
// identical across both groups are degenerate.
func MannWhitneyU(x, y table.GroupSeries) (MannWhitneyResult, error) {
	if x.Len() < 2 || y.Len() < 2 {
		return MannWhitneyResult{}, core.ErrSampleTooSmall
	}

	res, err := mstats.MannWhitneyUTest(x, y, mstats.LocationDiffers)
	if err != nil {
		return MannWhitneyResult{}, fmt.Errorf("%w: %v", core.ErrDegenerateSample, err)
	}
	return MannWhitneyResult{U: res.U, P: res.P}, nil
}
