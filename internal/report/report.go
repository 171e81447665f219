package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domstats "raincloud/domain/stats"
	"raincloud/internal"
)

// FileName is the download name for the markdown report.
const FileName = "raincloud_report.md"

// Input is everything one analysis pass contributes to the report.
type Input struct {
	DatasetName  string
	GeneratedAt  time.Time
	TestType     domstats.TestType
	Records      int
	Groups       []string
	Descriptives []domstats.DescriptiveRow
	Normality    []domstats.NormalityRow
	Pairs        []domstats.PairComparison
	Warnings     []domstats.Warning
}

// Builder composes the per-dataset analysis report.
type Builder struct {
	log *internal.Logger
}

func NewBuilder() *Builder {
	return &Builder{log: internal.DefaultLogger.Named("Report")}
}

// Markdown renders the full report document.
func (b *Builder) Markdown(in Input) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Raincloud Analysis Report\n\n")
	if in.DatasetName != "" {
		fmt.Fprintf(&buf, "Dataset: %s\n\n", in.DatasetName)
	}
	if !in.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "Generated: %s\n\n", in.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	}
	fmt.Fprintf(&buf, "%d records across %d groups.\n\n", in.Records, len(in.Groups))

	b.writeDescriptives(&buf, in.Descriptives)
	b.writeNormality(&buf, in.Normality)
	b.writePairs(&buf, in)
	b.writeWarnings(&buf, in.Warnings)

	b.log.Debug("report built: %d groups, %d pairs, %d warnings", len(in.Groups), len(in.Pairs), len(in.Warnings))
	return buf.Bytes()
}

// HTML renders markdown to an HTML fragment for the results panel.
func (b *Builder) HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(p.Parse(md), renderer)
}

func (b *Builder) writeDescriptives(buf *bytes.Buffer, rows []domstats.DescriptiveRow) {
	if len(rows) == 0 {
		return
	}
	buf.WriteString("## Descriptive Statistics\n\n")
	buf.WriteString("| Group | Count | Mean | Std Dev | Min | 25th Percentile | Median | 75th Percentile | Max |\n")
	buf.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(buf, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Group, r.Count, cell(r.Mean), cell(r.StdDev), cell(r.Min),
			cell(r.Q25), cell(r.Median), cell(r.Q75), cell(r.Max))
	}
	buf.WriteString("\n")
}

func (b *Builder) writeNormality(buf *bytes.Buffer, rows []domstats.NormalityRow) {
	if len(rows) == 0 {
		return
	}
	buf.WriteString("## Normality\n\n")
	buf.WriteString("| Group | Count | Shapiro-Wilk W | Shapiro-Wilk p | Anderson-Darling A-squared | 5% Critical Value | Normal? |\n")
	buf.WriteString("|---|---|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(buf, "| %s | %d | %s | %s | %s | %s | %s |\n",
			r.Group, r.Count, cell(r.ShapiroW), cell(r.ShapiroP),
			cell(r.AndersonStat), cell(r.AndersonCrit), yesNo(r.Normal))
	}
	buf.WriteString("\n")
}

func (b *Builder) writePairs(buf *bytes.Buffer, in Input) {
	if len(in.Pairs) == 0 {
		return
	}
	fmt.Fprintf(buf, "## Pairwise Comparisons (%s)\n\n", in.TestType)
	if in.TestType.Parametric() {
		buf.WriteString("| Pair | N1 | N2 | T-stat | P-value | Cohen's d | Bayes Factor | Significant? |\n")
		buf.WriteString("|---|---|---|---|---|---|---|---|\n")
		for _, p := range in.Pairs {
			fmt.Fprintf(buf, "| %s vs %s | %d | %d | %s | %s | %s | %s | %s |\n",
				p.GroupA, p.GroupB, p.N1, p.N2, cell(p.Statistic), cell(p.PValue),
				ptrCell(p.EffectSize), ptrCell(p.BayesFactor), yesNo(p.Significant()))
		}
	} else {
		buf.WriteString("| Pair | N1 | N2 | U-stat | P-value | Significant? |\n")
		buf.WriteString("|---|---|---|---|---|---|\n")
		for _, p := range in.Pairs {
			fmt.Fprintf(buf, "| %s vs %s | %d | %d | %s | %s | %s |\n",
				p.GroupA, p.GroupB, p.N1, p.N2, cell(p.Statistic), cell(p.PValue), yesNo(p.Significant()))
		}
	}
	buf.WriteString("\n")
}

func (b *Builder) writeWarnings(buf *bytes.Buffer, warnings []domstats.Warning) {
	if len(warnings) == 0 {
		return
	}
	buf.WriteString("## Warnings\n\n")
	for _, w := range warnings {
		fmt.Fprintf(buf, "- %s: %s\n", w.Subject, w.Message)
	}
	buf.WriteString("\n")
}

// cell formats a table value; undefined statistics stay blank.
func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func ptrCell(v *float64) string {
	if v == nil {
		return ""
	}
	return cell(*v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
