package analysis

import (
	"math"
	"testing"

	domstats "raincloud/domain/stats"
	"raincloud/domain/table"
)

func fixtureSeries() ([]string, map[string]table.GroupSeries) {
	groups := []string{"A", "B", "C"}
	series := map[string]table.GroupSeries{
		"A": {1, 2, 3, 4, 5},
		"B": {2, 3, 4, 5, 6},
		"C": {10, 11, 12, 13, 14},
	}
	return groups, series
}

func TestEngine_ComparisonsUpperTriangle(t *testing.T) {
	groups, series := fixtureSeries()

	pairs, warnings := NewEngine().Comparisons(groups, series, domstats.TestWelch)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	if len(pairs) != 3 {
		t.Fatalf("3 groups must yield 3 pairs, got %d", len(pairs))
	}

	want := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	for i, p := range pairs {
		if p.GroupA != want[i][0] || p.GroupB != want[i][1] {
			t.Fatalf("pair %d: expected %v vs %v, got %v vs %v",
				i, want[i][0], want[i][1], p.GroupA, p.GroupB)
		}
	}
}

func TestEngine_TestTypeSwitchesColumnsNotPairs(t *testing.T) {
	groups, series := fixtureSeries()
	e := NewEngine()

	welch, _ := e.Comparisons(groups, series, domstats.TestWelch)
	mw, _ := e.Comparisons(groups, series, domstats.TestMannWhitney)

	if len(welch) != len(mw) {
		t.Fatalf("test choice must not change pair count: %d vs %d", len(welch), len(mw))
	}
	for i := range welch {
		if welch[i].GroupA != mw[i].GroupA || welch[i].GroupB != mw[i].GroupB {
			t.Fatalf("test choice must not change pair order at %d", i)
		}
		if welch[i].EffectSize == nil || welch[i].BayesFactor == nil {
			t.Fatalf("welch row %d missing effect size or bayes factor", i)
		}
		if mw[i].EffectSize != nil || mw[i].BayesFactor != nil {
			t.Fatalf("mann-whitney row %d must not carry t-based columns", i)
		}
	}
}

func TestEngine_WelchGoldPairThroughEngine(t *testing.T) {
	groups := []string{"A", "B"}
	series := map[string]table.GroupSeries{
		"A": {1, 2, 3, 4, 5},
		"B": {2, 3, 4, 5, 6},
	}

	pairs, warnings := NewEngine().Comparisons(groups, series, domstats.TestWelch)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}

	p := pairs[0]
	if p.N1 != 5 || p.N2 != 5 {
		t.Fatalf("unexpected sizes: %d, %d", p.N1, p.N2)
	}
	if !approx(p.Statistic, -1.0, 1e-9) {
		t.Fatalf("expected rounded t=-1.0, got %v", p.Statistic)
	}
	if !approx(p.PValue, 0.3466, 1e-9) {
		t.Fatalf("expected rounded p=0.3466, got %v", p.PValue)
	}
	if p.Significant() {
		t.Fatal("gold pair must not be significant")
	}
	if p.EffectSize == nil || !approx(*p.EffectSize, -0.6325, 1e-9) {
		t.Fatalf("expected rounded d=-0.6325, got %v", p.EffectSize)
	}
	if p.BayesFactor == nil || *p.BayesFactor <= 0 || *p.BayesFactor >= 1 {
		t.Fatalf("weak t at n=5 should give BF in (0,1), got %v", p.BayesFactor)
	}
}

func TestEngine_MannWhitneyGoldPairThroughEngine(t *testing.T) {
	groups := []string{"A", "B"}
	series := map[string]table.GroupSeries{
		"A": {1, 2, 3, 4, 5},
		"B": {2, 3, 4, 5, 6},
	}

	pairs, warnings := NewEngine().Comparisons(groups, series, domstats.TestMannWhitney)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	if !approx(pairs[0].Statistic, 8.0, 1e-9) {
		t.Fatalf("expected U=8, got %v", pairs[0].Statistic)
	}
	if pairs[0].PValue <= 0.05 {
		t.Fatalf("overlapping groups must not be significant, p=%v", pairs[0].PValue)
	}
}

func TestEngine_UndersizedGroupSkippedSilently(t *testing.T) {
	groups := []string{"A", "B", "C"}
	series := map[string]table.GroupSeries{
		"A": {1, 2, 3, 4, 5},
		"B": {2, 3, 4, 5, 6},
		"C": {9},
	}

	pairs, warnings := NewEngine().Comparisons(groups, series, domstats.TestWelch)
	if len(pairs) != 1 {
		t.Fatalf("only A vs B is comparable, got %d pairs", len(pairs))
	}
	if pairs[0].GroupA != "A" || pairs[0].GroupB != "B" {
		t.Fatalf("unexpected surviving pair: %v vs %v", pairs[0].GroupA, pairs[0].GroupB)
	}
	if len(warnings) != 0 {
		t.Fatalf("undersized groups are an expected edge, not a warning: %+v", warnings)
	}
}

func TestEngine_EmptyGroupExcludedFromPairs(t *testing.T) {
	groups := []string{"A", "B", "Empty"}
	series := map[string]table.GroupSeries{
		"A":     {1, 2, 3},
		"B":     {4, 5, 6},
		"Empty": {},
	}

	pairs, _ := NewEngine().Comparisons(groups, series, domstats.TestWelch)
	for _, p := range pairs {
		if p.GroupA == "Empty" || p.GroupB == "Empty" {
			t.Fatalf("empty group must not appear in pairs: %+v", p)
		}
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
}

func TestEngine_DegeneratePairWarnsAndContinues(t *testing.T) {
	groups := []string{"A", "B", "C"}
	series := map[string]table.GroupSeries{
		"A": {2, 2, 2},
		"B": {2, 2, 2},
		"C": {1, 2, 3, 4},
	}

	pairs, warnings := NewEngine().Comparisons(groups, series, domstats.TestWelch)
	// A vs B collapses, but both groups still pair with C.
	if len(pairs) != 2 {
		t.Fatalf("expected the two pairs against C, got %d", len(pairs))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one warning for the collapsed pair, got %+v", warnings)
	}
	if warnings[0].Subject != "A vs B" {
		t.Fatalf("unexpected warning subject %q", warnings[0].Subject)
	}
}

func TestEngine_DescribeAllKeepsEmptyGroups(t *testing.T) {
	groups := []string{"A", "Empty"}
	series := map[string]table.GroupSeries{
		"A":     {1, 2, 2},
		"Empty": {},
	}

	rows := NewEngine().DescribeAll(groups, series)
	if len(rows) != 2 {
		t.Fatalf("every group keeps a descriptive row, got %d", len(rows))
	}
	if !approx(rows[0].Mean, 1.6667, 1e-9) {
		t.Fatalf("expected rounded mean 1.6667, got %v", rows[0].Mean)
	}
	if rows[1].Group != "Empty" || rows[1].Count != 0 || !math.IsNaN(rows[1].Mean) {
		t.Fatalf("empty group row malformed: %+v", rows[1])
	}
}

func TestEngine_NormalityAllSkipsAndWarns(t *testing.T) {
	groups := []string{"A", "Tiny", "Flat"}
	series := map[string]table.GroupSeries{
		"A":    {1, 2, 3, 4, 5},
		"Tiny": {1, 2},
		"Flat": {4, 4, 4},
	}

	rows, warnings := NewEngine().NormalityAll(groups, series)
	if len(rows) != 1 {
		t.Fatalf("only A qualifies for a normality row, got %d", len(rows))
	}
	if rows[0].Group != "A" || rows[0].Count != 5 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if !rows[0].Normal {
		t.Fatalf("1..5 should pass both normality checks: %+v", rows[0])
	}
	if rows[0].AndersonCrit != 0.787 {
		t.Fatalf("rows are judged against the 5%% critical value, got %v", rows[0].AndersonCrit)
	}

	if len(warnings) != 1 {
		t.Fatalf("expected one warning for the flat group, got %+v", warnings)
	}
	if warnings[0].Subject != "Flat" {
		t.Fatalf("unexpected warning subject %q", warnings[0].Subject)
	}
}

func TestEngine_NoGroupsNoPairs(t *testing.T) {
	e := NewEngine()

	pairs, warnings := e.Comparisons(nil, nil, domstats.TestWelch)
	if len(pairs) != 0 || len(warnings) != 0 {
		t.Fatalf("no groups must yield nothing, got %d pairs %d warnings", len(pairs), len(warnings))
	}

	pairs, _ = e.Comparisons([]string{"only"}, map[string]table.GroupSeries{"only": {1, 2, 3}}, domstats.TestWelch)
	if len(pairs) != 0 {
		t.Fatalf("a single group has no pairs, got %d", len(pairs))
	}
}
