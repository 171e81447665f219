package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	domstats "raincloud/domain/stats"
	"raincloud/domain/table"
)

// Describe summarizes one group: count, mean, sample standard deviation,
// min, quartiles, max. A group with no observations yields a row with
// Count=0 and every other field NaN; the views render those as blanks.
func Describe(group string, series table.GroupSeries) domstats.DescriptiveRow {
	row := domstats.DescriptiveRow{
		Group:  group,
		Count:  series.Len(),
		Mean:   math.NaN(),
		StdDev: math.NaN(),
		Min:    math.NaN(),
		Q25:    math.NaN(),
		Median: math.NaN(),
		Q75:    math.NaN(),
		Max:    math.NaN(),
	}
	if series.Len() == 0 {
		return row
	}

	data := stats.Float64Data(series)
	row.Mean, _ = stats.Mean(data)
	row.Min, _ = stats.Min(data)
	row.Max, _ = stats.Max(data)
	row.Median, _ = stats.Median(data)

	// Sample standard deviation needs at least two observations.
	if series.Len() >= 2 {
		if sd, err := stats.StandardDeviationSample(data); err == nil {
			row.StdDev = sd
		}
	}

	// Tukey hinges stay defined down to n=2; a singleton keeps NaN quartiles.
	if q, err := stats.Quartile(data); err == nil {
		row.Q25 = q.Q1
		row.Q75 = q.Q3
	}

	return row
}
