package ui

import (
	"html/template"
	"net/http"

	"raincloud/app"
	"raincloud/domain/plot"
	domstats "raincloud/domain/stats"
)

// IndexData is the full view model for the single page.
type IndexData struct {
	Title string
	Error string

	HasDataset  bool
	DatasetName string
	UploadedAt  string
	ColumnCount int
	RowCount    int

	Settings  Settings
	Palettes  []string
	TestTypes []domstats.TestType
	Sides     []plot.Side

	Result     *app.PassResult
	ChartSVG   template.HTML
	Parametric bool

	RasterAvailable bool
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderIndex(w, "")
}

// renderIndex draws the page, optionally with an error banner. Upload and
// settings failures re-render directly instead of redirecting so the message
// survives.
func (a *App) renderIndex(w http.ResponseWriter, errMsg string) {
	settings, last := a.snapshot()

	data := IndexData{
		Title:           "Raincloud Plot Generator",
		Error:           errMsg,
		Settings:        settings,
		Palettes:        a.palettes.Names(),
		TestTypes:       []domstats.TestType{domstats.TestWelch, domstats.TestMannWhitney},
		Sides:           []plot.Side{plot.SideLeft, plot.SideRight},
		RasterAvailable: a.exporter.RasterAvailable(),
	}

	if ds, ok := a.store.Current(); ok {
		data.HasDataset = true
		data.DatasetName = ds.Name
		data.UploadedAt = ds.UploadedAt.Format("2006-01-02 15:04:05")
		data.ColumnCount = ds.Table.ColumnCount()
		data.RowCount = ds.Table.RowCount()
	}

	if last != nil {
		data.Result = last
		data.ChartSVG = template.HTML(last.ChartSVG)
		data.Parametric = last.TestType.Parametric()
	}

	a.renderTemplate(w, "index.html", data)
}
