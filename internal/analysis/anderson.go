package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"raincloud/domain/core"
)

// AndersonResult holds the Anderson-Darling normality statistic with the
// critical values it is judged against.
type AndersonResult struct {
	// Stat is A²* (the A² statistic with Stephens' small-sample
	// correction applied), for the case where mean and variance are
	// estimated from the sample.
	Stat float64
	// SignificanceLevels and CriticalValues are parallel: the fit is
	// rejected at SignificanceLevels[i] percent when Stat exceeds
	// CriticalValues[i].
	SignificanceLevels []float64
	CriticalValues     []float64
}

// Stephens (1974) critical values for the normal case with estimated
// parameters.
var (
	adLevels   = []float64{15, 10, 5, 2.5, 1}
	adCritical = []float64{0.576, 0.656, 0.787, 0.918, 1.092}
)

// CriticalAt returns the critical value for the given significance level
// in percent, or an error if the level is not tabulated.
func (r AndersonResult) CriticalAt(level float64) (float64, error) {
	for i, l := range r.SignificanceLevels {
		if l == level {
			return r.CriticalValues[i], nil
		}
	}
	return 0, fmt.Errorf("no critical value tabulated for %g%% significance", level)
}

// AndersonDarling tests the sample against a normal distribution with
// mean and variance estimated from the sample itself.
func AndersonDarling(sample []float64) (AndersonResult, error) {
	n := len(sample)
	if n < 3 {
		return AndersonResult{}, fmt.Errorf("%w: anderson-darling needs at least 3 values, got %d", core.ErrSampleTooSmall, n)
	}

	x := make([]float64, n)
	copy(x, sample)
	sort.Float64s(x)

	an := float64(n)
	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / an
	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / (an - 1))
	if sd == 0 {
		return AndersonResult{}, core.ErrDegenerateSample
	}

	// A² = -n - (1/n) Σ (2i-1)[ln F(z_i) + ln(1-F(z_{n+1-i}))] over the
	// standardized order statistics, with the CDF clamped away from 0
	// and 1 so the logs stay finite for extreme points.
	const eps = 1e-300
	norm := distuv.UnitNormal
	s := 0.0
	for i, v := range x {
		hi := x[n-1-i]
		cdf := clampOpen(norm.CDF((v-mean)/sd), eps)
		sf := clampOpen(1-norm.CDF((hi-mean)/sd), eps)
		s += float64(2*i+1) * (math.Log(cdf) + math.Log(sf))
	}
	a2 := -an - s/an

	// Stephens' correction for estimated parameters.
	stat := a2 * (1 + 0.75/an + 2.25/(an*an))

	return AndersonResult{
		Stat:               stat,
		SignificanceLevels: adLevels,
		CriticalValues:     adCritical,
	}, nil
}

func clampOpen(v, eps float64) float64 {
	return math.Min(math.Max(v, eps), 1-eps)
}
