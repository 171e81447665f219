package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"raincloud/domain/plot"
	"raincloud/domain/table"
	"raincloud/internal"
	"raincloud/internal/palette"
)

// Figure chrome follows the simple-white template: white canvas, black
// Arial type, fixed margins.
const (
	marginLeft   = 50
	marginRight  = 40
	marginTop    = 60
	marginBottom = 50

	fontFamily   = "Arial, sans-serif"
	axisColor    = "#000000"
	gridColor    = "#333333"
	violinStroke = "#ffffff"
	pointStroke  = "#ffffff"
)

// Scene bundles everything one pass hands to the renderer. Groups fixes the
// drawing and axis order; Colors is the resolved palette.
type Scene struct {
	Groups    []string
	Series    map[string]table.GroupSeries
	Positions map[string]plot.GroupPositions
	Layout    plot.LayoutSpec
	Style     plot.PlotStyle
	Colors    []string
}

// Renderer draws raincloud scenes as standalone SVG documents.
type Renderer struct {
	densityGrid int
	log         *internal.Logger
}

// NewRenderer creates a renderer sampling each violin's density at
// densityGrid points.
func NewRenderer(densityGrid int) *Renderer {
	if densityGrid < 16 {
		densityGrid = 128
	}
	return &Renderer{
		densityGrid: densityGrid,
		log:         internal.DefaultLogger.Named("Render"),
	}
}

// Render draws the scene. A scene without groups still produces a valid
// figure with empty axes.
func (r *Renderer) Render(sc Scene) []byte {
	w, h := sc.Style.FigureWidth, sc.Style.FigureHeight
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	plotW := w - marginLeft - marginRight
	plotH := h - marginTop - marginBottom

	xMin, xMax := r.xDomain(sc)
	yMin, yMax := r.yDomain(sc)

	px := func(x float64) int {
		return marginLeft + int(math.Round((x-xMin)/(xMax-xMin)*float64(plotW)))
	}
	py := func(y float64) int {
		return marginTop + int(math.Round((1-(y-yMin)/(yMax-yMin))*float64(plotH)))
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	if !sc.Style.Transparent {
		canvas.Rect(0, 0, w, h, "fill:#ffffff")
	}

	r.drawYAxis(canvas, sc, py, yMin, yMax, w)
	r.drawGroups(canvas, sc, px, py)
	r.drawFrame(canvas, sc, px, w, h, plotW, plotH)

	canvas.End()
	return buf.Bytes()
}

func (r *Renderer) xDomain(sc Scene) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range sc.Groups {
		pos, ok := sc.Positions[g]
		if !ok {
			continue
		}
		left, right := pos.ViolinAnchor, pos.ViolinAnchor
		if sc.Layout.ViolinSide == plot.SideRight {
			right += sc.Layout.ViolinWidth / 2
		} else {
			left -= sc.Layout.ViolinWidth / 2
		}
		lo = math.Min(lo, math.Min(left, pos.BoxAnchor-sc.Layout.BoxWidth/2))
		hi = math.Max(hi, math.Max(right, pos.BoxAnchor+sc.Layout.BoxWidth/2))
		for _, p := range pos.PointAnchors {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if math.IsInf(lo, 1) {
		return -0.5, 0.5
	}
	pad := 0.05 * math.Max(hi-lo, sc.Layout.GroupSpacing)
	return lo - pad, hi + pad
}

func (r *Renderer) yDomain(sc Scene) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range sc.Groups {
		for _, v := range sc.Series[g] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := 0.05 * (hi - lo)
	return lo - pad, hi + pad
}

func (r *Renderer) drawYAxis(canvas *svg.SVG, sc Scene, py func(float64) int, yMin, yMax float64, w int) {
	ticks, step := niceTicks(yMin, yMax, 6)
	for _, t := range ticks {
		y := py(t)
		if sc.Style.ShowGrid {
			canvas.Line(marginLeft, y, w-marginRight, y,
				fmt.Sprintf("stroke:%s;stroke-width:0.5;stroke-opacity:0.35", gridColor))
		}
		canvas.Line(marginLeft-4, y, marginLeft, y, "stroke:"+axisColor+";stroke-width:1")
		canvas.Text(marginLeft-8, y+4, tickLabel(t, step),
			fmt.Sprintf("text-anchor:end;font-size:12px;font-family:%s;fill:%s", fontFamily, axisColor))
	}
}

func (r *Renderer) drawGroups(canvas *svg.SVG, sc Scene, px func(float64) int, py func(float64) int) {
	for i, g := range sc.Groups {
		pos, ok := sc.Positions[g]
		if !ok {
			continue
		}
		values := sc.Series[g]
		color := palette.ColorFor(sc.Colors, i)

		if outline, ok := Violin(values, pos.ViolinAnchor, sc.Layout, r.densityGrid); ok {
			xs := make([]int, len(outline.Xs))
			ys := make([]int, len(outline.Ys))
			for k := range outline.Xs {
				xs[k] = px(outline.Xs[k])
				ys[k] = py(outline.Ys[k])
			}
			canvas.Polygon(xs, ys, fmt.Sprintf(
				"fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:1",
				color, sc.Style.ViolinOpacity, violinStroke))
		}

		if box, ok := Box(values, pos.BoxAnchor, sc.Layout); ok {
			r.drawBox(canvas, sc.Style, box, px, py)
		}

		radius := int(math.Max(1, sc.Style.MarkerSize/2))
		for k, x := range pos.PointAnchors {
			canvas.Circle(px(x), py(values[k]), radius, fmt.Sprintf(
				"fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:0.5",
				color, sc.Style.MarkerOpacity, pointStroke))
		}
	}
}

func (r *Renderer) drawBox(canvas *svg.SVG, style plot.PlotStyle, box BoxGlyph, px func(float64) int, py func(float64) int) {
	left, right := px(box.Center-box.HalfWidth), px(box.Center+box.HalfWidth)
	center := px(box.Center)
	top, bottom := py(box.Q3), py(box.Q1)
	stroke := fmt.Sprintf("stroke:%s;stroke-width:%.2f", axisColor, style.BoxLineWidth)

	// Whiskers first so the box hides their joints.
	canvas.Line(center, bottom, center, py(box.WhiskerLow), stroke)
	canvas.Line(center, top, center, py(box.WhiskerHigh), stroke)
	capHalf := (right - left) / 4
	canvas.Line(center-capHalf, py(box.WhiskerLow), center+capHalf, py(box.WhiskerLow), stroke)
	canvas.Line(center-capHalf, py(box.WhiskerHigh), center+capHalf, py(box.WhiskerHigh), stroke)

	canvas.Rect(left, top, right-left, bottom-top,
		fmt.Sprintf("fill:%s;%s", style.BoxFill, stroke))
	canvas.Line(left, py(box.Median), right, py(box.Median), stroke)
}

func (r *Renderer) drawFrame(canvas *svg.SVG, sc Scene, px func(float64) int, w, h, plotW, plotH int) {
	canvas.Line(marginLeft, marginTop, marginLeft, marginTop+plotH, "stroke:"+axisColor+";stroke-width:1")
	canvas.Line(marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH, "stroke:"+axisColor+";stroke-width:1")

	for _, g := range sc.Groups {
		pos, ok := sc.Positions[g]
		if !ok {
			continue
		}
		x := px(pos.ViolinAnchor)
		canvas.Line(x, marginTop+plotH, x, marginTop+plotH+4, "stroke:"+axisColor+";stroke-width:1")
		canvas.Text(x, marginTop+plotH+18, g,
			fmt.Sprintf("text-anchor:middle;font-size:12px;font-family:%s;fill:%s", fontFamily, axisColor))
	}

	canvas.Text(w/2, marginTop/2+7, sc.Style.Title,
		fmt.Sprintf("text-anchor:middle;font-size:20px;font-family:%s;fill:%s", fontFamily, axisColor))
	canvas.Text(marginLeft+plotW/2, h-10, sc.Style.XLabel,
		fmt.Sprintf("text-anchor:middle;font-size:14px;font-family:%s;fill:%s", fontFamily, axisColor))
	canvas.TranslateRotate(14, marginTop+plotH/2, 270)
	canvas.Text(0, 0, sc.Style.YLabel,
		fmt.Sprintf("text-anchor:middle;font-size:14px;font-family:%s;fill:%s", fontFamily, axisColor))
	canvas.Gend()
}

// niceTicks picks round tick positions covering [lo, hi], at most n of them.
func niceTicks(lo, hi float64, n int) ([]float64, float64) {
	if hi <= lo || n < 2 {
		return nil, 1
	}
	raw := (hi - lo) / float64(n-1)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	var step float64
	switch norm := raw / mag; {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}

	ticks := make([]float64, 0, n+1)
	for t := math.Ceil(lo/step) * step; t <= hi+step/1e6; t += step {
		ticks = append(ticks, t)
	}
	return ticks, step
}

// tickLabel formats a tick value with just enough decimals for its step.
func tickLabel(v, step float64) string {
	prec := 0
	for step < 1 && prec < 6 {
		step *= 10
		prec++
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
