package stats

import "math"

// TestType selects which two-sample comparison the pairwise pass runs.
type TestType string

const (
	TestWelch       TestType = "Welch's T-Test"
	TestMannWhitney TestType = "Mann-Whitney U Test"
)

// ParseTestType maps a form value onto a TestType, defaulting to Welch.
func ParseTestType(s string) TestType {
	if s == string(TestMannWhitney) {
		return TestMannWhitney
	}
	return TestWelch
}

// Parametric reports whether the test produces t-based columns
// (effect size, Bayes factor) rather than a U statistic.
func (t TestType) Parametric() bool {
	return t != TestMannWhitney
}

// DescriptiveRow summarizes one group.
// INVARIANTS:
// - Count always present, >= 0
// - all other fields are NaN when Count == 0
// - StdDev is NaN when Count < 2 (sample standard deviation undefined)
type DescriptiveRow struct {
	Group  string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Defined reports whether the row carries any statistics at all.
func (r DescriptiveRow) Defined() bool {
	return r.Count > 0 && !math.IsNaN(r.Mean)
}

// NormalityRow holds both normality figures for one group.
// Requires Count >= 3; smaller groups never produce a row.
type NormalityRow struct {
	Group        string
	Count        int
	ShapiroW     float64
	ShapiroP     float64
	AndersonStat float64 // Stephens-corrected A-squared
	AndersonCrit float64 // 5% critical value the statistic is judged against
	Normal       bool    // ShapiroP >= 0.05 and AndersonStat < AndersonCrit
}

// PairComparison is one row of the pairwise table: unordered pair {A,B},
// produced only when both groups have >= 2 observations. EffectSize and
// BayesFactor are nil for the non-parametric test.
type PairComparison struct {
	GroupA      string
	GroupB      string
	N1          int
	N2          int
	Statistic   float64
	PValue      float64
	EffectSize  *float64
	BayesFactor *float64
}

// Significant reports two-sided significance at the conventional 0.05 level.
func (p PairComparison) Significant() bool {
	return p.PValue < 0.05
}

// Warning records one computation that was skipped or fell back.
// Warnings never abort sibling computations; they surface next to the tables.
type Warning struct {
	Subject string // group name, "A vs B", or a setting name
	Message string
}
