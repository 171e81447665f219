package ui

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"raincloud/domain/plot"
	domstats "raincloud/domain/stats"
	"raincloud/internal/export"
)

// Settings is the full control-panel state for one user session. It is read
// under the app mutex and replaced wholesale on every settings submit.
type Settings struct {
	TestType          domstats.TestType
	Layout            plot.LayoutSpec
	Style             plot.PlotStyle
	ExportScale       int
	ExportTransparent bool
}

// DefaultSettings mirrors the control panel's initial positions.
func DefaultSettings() Settings {
	return Settings{
		TestType:          domstats.TestWelch,
		Layout:            plot.DefaultLayoutSpec(),
		Style:             plot.DefaultPlotStyle(),
		ExportScale:       export.DefaultScale,
		ExportTransparent: true,
	}
}

// handleSettings folds the submitted control panel into the session settings
// and re-runs the pass over the active dataset.
func (a *App) handleSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderIndex(w, "Invalid form submission")
		return
	}

	a.mu.Lock()
	a.settings = parseSettings(r.PostForm, a.settings)
	a.mu.Unlock()

	if err := a.refresh(r.Context()); err != nil {
		a.renderIndex(w, err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseSettings folds one settings form into the current state. Unparseable
// numbers keep their previous value; geometry that cannot be drawn is caught
// later by LayoutSpec.Validate, not here.
func parseSettings(form url.Values, cur Settings) Settings {
	next := cur

	next.TestType = domstats.ParseTestType(form.Get("test_type"))

	if form.Has("palette") {
		next.Style.Palette = form.Get("palette")
	}
	if form.Has("custom_colors") {
		next.Style.CustomColors = strings.TrimSpace(form.Get("custom_colors"))
	}
	if form.Has("direction") {
		next.Layout.ViolinSide = plot.ParseSide(form.Get("direction"))
	}

	floatField(form, "group_spacing", &next.Layout.GroupSpacing)
	floatField(form, "violin_box_gap", &next.Layout.ViolinBoxGap)
	floatField(form, "box_points_gap", &next.Layout.BoxPointsGap)
	floatField(form, "point_jitter", &next.Layout.PointJitterWidth)
	floatField(form, "violin_width", &next.Layout.ViolinWidth)
	floatField(form, "box_width", &next.Layout.BoxWidth)

	floatField(form, "point_size", &next.Style.MarkerSize)
	floatField(form, "point_opacity", &next.Style.MarkerOpacity)
	floatField(form, "violin_opacity", &next.Style.ViolinOpacity)
	floatField(form, "box_line_width", &next.Style.BoxLineWidth)
	intField(form, "fig_width", &next.Style.FigureWidth)
	intField(form, "fig_height", &next.Style.FigureHeight)

	if form.Has("box_fill") {
		next.Style.BoxFill = form.Get("box_fill")
	}
	textField(form, "title", &next.Style.Title)
	textField(form, "x_label", &next.Style.XLabel)
	textField(form, "y_label", &next.Style.YLabel)

	// Checkboxes are simply absent when unchecked; the settings form always
	// posts every other control.
	next.Style.ShowGrid = form.Get("show_grid") != ""

	next.Style.MarkerOpacity = clamp01(next.Style.MarkerOpacity)
	next.Style.ViolinOpacity = clamp01(next.Style.ViolinOpacity)

	intField(form, "export_scale", &next.ExportScale)
	next.ExportTransparent = form.Get("export_transparent") != ""

	return next
}

func floatField(form url.Values, key string, dst *float64) {
	if !form.Has(key) {
		return
	}
	if v, err := strconv.ParseFloat(form.Get(key), 64); err == nil {
		*dst = v
	}
}

func intField(form url.Values, key string, dst *int) {
	if !form.Has(key) {
		return
	}
	if v, err := strconv.Atoi(form.Get(key)); err == nil {
		*dst = v
	}
}

func textField(form url.Values, key string, dst *string) {
	if form.Has(key) {
		*dst = form.Get(key)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
