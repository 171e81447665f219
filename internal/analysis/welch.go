package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"raincloud/domain/core"
	"raincloud/domain/table"
)

// WelchResult holds the unequal-variance two-sample t-test outcome.
type WelchResult struct {
	T  float64
	DF float64
	P  float64
}

// WelchTTest computes Welch's two-sample t-test (two-sided). Both samples
// need at least two observations; a pair of zero-variance samples is
// degenerate because the standard error collapses to zero.
func WelchTTest(x, y table.GroupSeries) (WelchResult, error) {
	n1 := float64(x.Len())
	n2 := float64(y.Len())
	if x.Len() < 2 || y.Len() < 2 {
		return WelchResult{}, core.ErrSampleTooSmall
	}

	mean1, _ := stats.Mean(stats.Float64Data(x))
	mean2, _ := stats.Mean(stats.Float64Data(y))
	var1, _ := stats.SampleVariance(stats.Float64Data(x))
	var2, _ := stats.SampleVariance(stats.Float64Data(y))

	se := math.Sqrt(var1/n1 + var2/n2)
	if se == 0 {
		return WelchResult{}, core.ErrDegenerateSample
	}

	t := (mean1 - mean2) / se

	// Welch-Satterthwaite degrees of freedom
	df := math.Pow(var1/n1+var2/n2, 2) /
		(math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))

	return WelchResult{T: t, DF: df, P: studentTwoSidedP(t, df)}, nil
}

// studentTwoSidedP converts a t statistic into a two-sided p-value.
func studentTwoSidedP(t, df float64) float64 {
	if math.IsNaN(t) || df <= 0 {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - tDist.CDF(math.Abs(t)))
	// Guard against floating point overshoot near 0 and 1.
	return math.Min(math.Max(p, 0), 1)
}

// CohenD computes the standardized mean difference with pooled standard
// deviation. Degenerate when both samples have zero variance.
func CohenD(x, y table.GroupSeries) (float64, error) {
	n1 := float64(x.Len())
	n2 := float64(y.Len())
	if x.Len() < 2 || y.Len() < 2 {
		return 0, core.ErrSampleTooSmall
	}

	mean1, _ := stats.Mean(stats.Float64Data(x))
	mean2, _ := stats.Mean(stats.Float64Data(y))
	var1, _ := stats.SampleVariance(stats.Float64Data(x))
	var2, _ := stats.SampleVariance(stats.Float64Data(y))

	pooledSD := math.Sqrt(((n1-1)*var1 + (n2-1)*var2) / (n1 + n2 - 2))
	if pooledSD == 0 {
		return 0, core.ErrDegenerateSample
	}
	return (mean1 - mean2) / pooledSD, nil
}
