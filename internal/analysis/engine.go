package analysis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"raincloud/domain/core"
	domstats "raincloud/domain/stats"
	"raincloud/domain/table"
	"raincloud/internal"
)

// Engine runs the statistical pass over reshaped group series: descriptives
// and normality per group, then hypothesis tests over the upper triangle of
// group pairs.
type Engine struct {
	log *internal.Logger
}

// NewEngine creates a statistics engine.
func NewEngine() *Engine {
	return &Engine{log: internal.DefaultLogger.Named("Analysis")}
}

// DescribeAll computes descriptive rows for every group, in group order.
// Empty groups keep their row with a zero count.
func (e *Engine) DescribeAll(groups []string, series map[string]table.GroupSeries) []domstats.DescriptiveRow {
	rows := make([]domstats.DescriptiveRow, 0, len(groups))
	for _, g := range groups {
		row := Describe(g, series[g])
		row.Mean = round4(row.Mean)
		row.StdDev = round4(row.StdDev)
		row.Min = round4(row.Min)
		row.Q25 = round4(row.Q25)
		row.Median = round4(row.Median)
		row.Q75 = round4(row.Q75)
		row.Max = round4(row.Max)
		rows = append(rows, row)
	}
	return rows
}

// NormalityAll runs Shapiro-Wilk and Anderson-Darling on every group with
// at least 3 values. Groups below that size are left out of the table;
// groups whose tests fail produce a warning instead of a row.
func (e *Engine) NormalityAll(groups []string, series map[string]table.GroupSeries) ([]domstats.NormalityRow, []domstats.Warning) {
	rows := make([]domstats.NormalityRow, 0, len(groups))
	warnings := make([]domstats.Warning, 0)

	for _, g := range groups {
		xs := series[g]
		if xs.Len() < 3 {
			continue
		}
		w, p, err := ShapiroWilk(xs)
		if err != nil {
			warnings = append(warnings, e.warning(g, "normality test skipped", err))
			continue
		}
		ad, err := AndersonDarling(xs)
		if err != nil {
			warnings = append(warnings, e.warning(g, "normality test skipped", err))
			continue
		}
		crit, err := ad.CriticalAt(5)
		if err != nil {
			warnings = append(warnings, e.warning(g, "normality test skipped", err))
			continue
		}
		rows = append(rows, domstats.NormalityRow{
			Group:        g,
			Count:        xs.Len(),
			ShapiroW:     round4(w),
			ShapiroP:     round4(p),
			AndersonStat: round4(ad.Stat),
			AndersonCrit: crit,
			Normal:       p >= 0.05 && ad.Stat < crit,
		})
	}
	return rows, warnings
}

// Comparisons tests every group pair in the upper triangle (i < j over the
// group order) with the requested test. Pairs where either side has fewer
// than 2 values are not comparable and are skipped without a warning.
func (e *Engine) Comparisons(groups []string, series map[string]table.GroupSeries, test domstats.TestType) ([]domstats.PairComparison, []domstats.Warning) {
	pairs := make([]domstats.PairComparison, 0)
	warnings := make([]domstats.Warning, 0)

	for i := 0; i < len(groups)-1; i++ {
		for j := i + 1; j < len(groups); j++ {
			a, b := groups[i], groups[j]
			xs, ys := series[a], series[b]
			if xs.Len() < 2 || ys.Len() < 2 {
				continue
			}
			pair, warn := e.compare(a, b, xs, ys, test)
			if warn != nil {
				warnings = append(warnings, *warn)
			}
			if pair != nil {
				pairs = append(pairs, *pair)
			}
		}
	}

	e.log.Debug("Compared %d group pairs (%s), %d warnings", len(pairs), test, len(warnings))
	return pairs, warnings
}

// compare runs one pairwise test. A failed primary test drops the pair with
// a warning; a failed Bayes factor keeps the pair and warns.
func (e *Engine) compare(a, b string, xs, ys table.GroupSeries, test domstats.TestType) (*domstats.PairComparison, *domstats.Warning) {
	label := fmt.Sprintf("%s vs %s", a, b)
	pair := &domstats.PairComparison{
		GroupA: a,
		GroupB: b,
		N1:     xs.Len(),
		N2:     ys.Len(),
	}

	if !test.Parametric() {
		res, err := MannWhitneyU(xs, ys)
		if err != nil {
			w := e.warning(label, "mann-whitney u test failed", err)
			return nil, &w
		}
		pair.Statistic = round4(res.U)
		pair.PValue = round4(res.P)
		return pair, nil
	}

	res, err := WelchTTest(xs, ys)
	if err != nil {
		w := e.warning(label, "welch t-test failed", err)
		return nil, &w
	}
	pair.Statistic = round4(res.T)
	pair.PValue = round4(res.P)

	if d, err := CohenD(xs, ys); err == nil {
		v := round4(d)
		pair.EffectSize = &v
	}

	bf, err := JZSBayesFactor(res.T, xs.Len(), ys.Len())
	if err != nil {
		w := e.warning(label, "bayes factor unavailable", err)
		return pair, &w
	}
	v := round4(bf)
	pair.BayesFactor = &v
	return pair, nil
}

// warning builds the row for one failed statistic. Anything other than the
// ordinary statistical preconditions is also logged at error level.
func (e *Engine) warning(subject, activity string, err error) domstats.Warning {
	if !core.IsComputationError(err) {
		e.log.Error("%s: %s: %v", subject, activity, err)
	}
	return domstats.Warning{Subject: subject, Message: fmt.Sprintf("%s: %v", activity, err)}
}

// round4 rounds to 4 decimal places, passing NaN through for fields that
// are undefined at small sample sizes.
func round4(v float64) float64 {
	r, err := stats.Round(v, 4)
	if err != nil {
		return v
	}
	return r
}
