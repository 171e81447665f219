package app

import (
	"context"
	"fmt"
	"time"

	"raincloud/domain/core"
	"raincloud/domain/plot"
	domstats "raincloud/domain/stats"
	"raincloud/domain/table"
	"raincloud/internal"
	"raincloud/internal/analysis"
	"raincloud/internal/errors"
	"raincloud/internal/layout"
	"raincloud/internal/palette"
	"raincloud/internal/render"
	"raincloud/internal/report"
	"raincloud/internal/reshape"
	"raincloud/ports"
)

// PlotService runs one complete pass over the active dataset: reshape to long
// form, place the geometry, render the chart, compute the statistics, and
// assemble the report. A pass is pure computation; the caller decides what to
// keep and what to show.
type PlotService struct {
	rngPort    ports.RNGPort
	renderer   *render.Renderer
	engine     *analysis.Engine
	reporter   *report.Builder
	palettes   *palette.Registry
	jitterSeed int64
	maxColumns int
	log        *internal.Logger
}

// PassRequest carries the dataset and the settings snapshot for one pass.
type PassRequest struct {
	Dataset  table.Dataset
	TestType domstats.TestType
	Layout   plot.LayoutSpec
	Style    plot.PlotStyle
}

// PassResult is everything one pass produced. Scene and Records are kept so
// exports reuse the exact figure the user is looking at instead of re-rolling
// the jitter.
type PassResult struct {
	DatasetID    core.DatasetID
	DatasetName  string
	GeneratedAt  time.Time
	TestType     domstats.TestType
	Records      []table.GroupRecord
	Groups       []string
	Series       map[string]table.GroupSeries
	Scene        render.Scene
	ChartSVG     []byte
	Descriptives []domstats.DescriptiveRow
	Normality    []domstats.NormalityRow
	Pairs        []domstats.PairComparison
	Warnings     []domstats.Warning
	ReportMD     []byte
	RuntimeMs    int64
}

// NewPlotService creates the pass orchestrator. jitterSeed zero keeps the
// time-seeded jitter stream; maxColumns caps how many upload columns a pass
// uses.
func NewPlotService(
	rngPort ports.RNGPort,
	renderer *render.Renderer,
	engine *analysis.Engine,
	reporter *report.Builder,
	palettes *palette.Registry,
	jitterSeed int64,
	maxColumns int,
) *PlotService {
	if maxColumns <= 0 {
		maxColumns = table.MaxColumns
	}
	return &PlotService{
		rngPort:    rngPort,
		renderer:   renderer,
		engine:     engine,
		reporter:   reporter,
		palettes:   palettes,
		jitterSeed: jitterSeed,
		maxColumns: maxColumns,
		log:        internal.DefaultLogger.Named("PlotService"),
	}
}

// RunPass executes the full pipeline for one settings snapshot.
func (s *PlotService) RunPass(ctx context.Context, req PassRequest) (*PassResult, error) {
	start := time.Now()

	if err := req.Layout.Validate(); err != nil {
		return nil, errors.Wrap(err, "layout settings rejected")
	}

	records := reshape.Reshape(req.Dataset.Table, s.maxColumns)
	groups := reshape.Groups(req.Dataset.Table, s.maxColumns)
	series := reshape.Series(groups, records)

	var warnings []domstats.Warning
	colors, err := s.palettes.Resolve(req.Style.Palette, req.Style.CustomColors)
	if err != nil {
		warnings = append(warnings, domstats.Warning{
			Subject: "palette",
			Message: fmt.Sprintf("%v, using %s", err, palette.Aurora),
		})
		colors, _ = s.palettes.Resolve(palette.Aurora, "")
	}

	positions := layout.Compute(groups, req.Layout, series, s.rngPort.JitterStream(s.jitterSeed))

	scene := render.Scene{
		Groups:    groups,
		Series:    series,
		Positions: positions,
		Layout:    req.Layout,
		Style:     req.Style,
		Colors:    colors,
	}
	chart := s.renderer.Render(scene)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pass canceled")
	}

	descriptives := s.engine.DescribeAll(groups, series)
	normality, normWarnings := s.engine.NormalityAll(groups, series)
	warnings = append(warnings, normWarnings...)
	pairs, pairWarnings := s.engine.Comparisons(groups, series, req.TestType)
	warnings = append(warnings, pairWarnings...)

	generatedAt := time.Now()
	reportMD := s.reporter.Markdown(report.Input{
		DatasetName:  req.Dataset.Name,
		GeneratedAt:  generatedAt,
		TestType:     req.TestType,
		Records:      len(records),
		Groups:       groups,
		Descriptives: descriptives,
		Normality:    normality,
		Pairs:        pairs,
		Warnings:     warnings,
	})

	result := &PassResult{
		DatasetID:    req.Dataset.ID,
		DatasetName:  req.Dataset.Name,
		GeneratedAt:  generatedAt,
		TestType:     req.TestType,
		Records:      records,
		Groups:       groups,
		Series:       series,
		Scene:        scene,
		ChartSVG:     chart,
		Descriptives: descriptives,
		Normality:    normality,
		Pairs:        pairs,
		Warnings:     warnings,
		ReportMD:     reportMD,
		RuntimeMs:    time.Since(start).Milliseconds(),
	}

	s.log.Info("pass complete: %d groups, %d records, %d pairs, %d warnings in %dms",
		len(groups), len(records), len(pairs), len(warnings), result.RuntimeMs)

	return result, nil
}

// ReportHTML renders a markdown report as an HTML fragment.
func (s *PlotService) ReportHTML(md []byte) []byte {
	return s.reporter.HTML(md)
}
