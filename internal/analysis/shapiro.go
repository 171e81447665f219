package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"raincloud/domain/core"
)

// Polynomial coefficient sets from Royston's AS R94 approximation of the
// Shapiro-Wilk test (Applied Statistics 44, 1995).
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

// ShapiroWilk computes the W statistic and its p-value for the hypothesis
// that the sample is drawn from a normal distribution. Valid for
// 3 <= n <= 5000; a constant sample has no defined W.
func ShapiroWilk(sample []float64) (w, p float64, err error) {
	n := len(sample)
	if n < 3 {
		return 0, 0, fmt.Errorf("%w: shapiro-wilk needs at least 3 values, got %d", core.ErrSampleTooSmall, n)
	}
	if n > 5000 {
		return 0, 0, fmt.Errorf("shapiro-wilk approximation not valid beyond 5000 values, got %d", n)
	}

	x := make([]float64, n)
	copy(x, sample)
	sort.Float64s(x)

	rng := x[n-1] - x[0]
	if rng < 1e-19 {
		return 0, 0, core.ErrDegenerateSample
	}

	an := float64(n)
	half := n / 2
	a := swWeights(x, n, an, half)

	// W is the squared correlation between the sorted data and the
	// antisymmetric weight vector (-a[i] in the lower tail, +a[i] mirrored
	// in the upper tail, zero at an odd-length center).
	var sum float64
	for _, v := range x {
		sum += v
	}
	meanX := sum / an

	var ssa, ssx, sax float64
	for i, v := range x {
		var wi float64
		j := n - 1 - i
		switch {
		case i < j:
			wi = -a[i]
		case i > j:
			wi = a[j]
		}
		xc := (v - meanX) / rng
		ssa += wi * wi
		ssx += xc * xc
		sax += wi * xc
	}

	ssassx := math.Sqrt(ssa * ssx)
	w1 := (ssassx - sax) * (ssassx + sax) / (ssa * ssx)
	w = 1 - w1

	// Perfect correlation with the normal scores within rounding.
	if w >= 1 {
		return 1, 1, nil
	}

	if n == 3 {
		const pi6 = 1.90985931710274  // 6/pi
		const stqr = 1.04719755119660 // asin(sqrt(3/4))
		p = pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		return w, clamp01(p), nil
	}

	y := math.Log(1 - w)
	logN := math.Log(an)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			// W far in the rejection region, beyond the transform's reach.
			return w, 0, nil
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		m = poly(swC5, logN)
		s = math.Exp(poly(swC6, logN))
	}

	p = 1 - distuv.UnitNormal.CDF((y-m)/s)
	return w, clamp01(p), nil
}

// swWeights builds the first half of the Shapiro-Wilk weight vector from
// expected normal order statistics, with Royston's polynomial corrections
// for the two extreme weights.
func swWeights(x []float64, n int, an float64, half int) []float64 {
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an25 := an + 0.25
	summ2 := 0.0
	for i := 0; i < half; i++ {
		a[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += a[i] * a[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)
	a1 := poly(swC1, rsn) - a[0]/ssumm2

	var start int
	var fac float64
	if n > 5 {
		start = 2
		a2 := -a[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*a[0]*a[0] - 2*a[1]*a[1]) /
			(1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		start = 1
		fac = math.Sqrt((summ2 - 2*a[0]*a[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := start; i < half; i++ {
		a[i] = -a[i] / fac
	}
	return a
}

// poly evaluates a polynomial with coefficients in ascending order.
func poly(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
