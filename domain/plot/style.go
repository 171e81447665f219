package plot

// PlotStyle is the visual configuration applied by the renderer. Like
// LayoutSpec it is a read-only snapshot per pass; edits arrive as a whole new
// value from the settings form.
type PlotStyle struct {
	Palette       string
	CustomColors  string // comma-separated hex list, used when Palette == "Custom"
	MarkerSize    float64
	MarkerOpacity float64
	ViolinOpacity float64
	BoxFill       string
	BoxLineWidth  float64
	FigureWidth   int
	FigureHeight  int
	ShowGrid      bool
	Transparent   bool // drop the white canvas, for image exports
	Title         string
	XLabel        string
	YLabel        string
}

// DefaultPlotStyle mirrors the tool's initial styling controls.
func DefaultPlotStyle() PlotStyle {
	return PlotStyle{
		Palette:       "Aurora",
		MarkerSize:    8,
		MarkerOpacity: 0.8,
		ViolinOpacity: 0.5,
		BoxFill:       "#4caf50",
		BoxLineWidth:  1,
		FigureWidth:   640,
		FigureHeight:  480,
		ShowGrid:      true,
		Title:         "Raincloud Plot",
		XLabel:        "Groups",
		YLabel:        "Values",
	}
}
