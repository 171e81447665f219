package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"raincloud/domain/table"
	"raincloud/internal"
	"raincloud/internal/errors"
	"raincloud/internal/render"
	"raincloud/ports"
)

// Download filenames, matching what the plot tool has always called them.
const (
	FilePNG = "raincloud_plot.png"
	FileSVG = "raincloud_plot.svg"
	FilePDF = "raincloud_plot.pdf"
	FileCSV = "raincloud_data.csv"
)

// DefaultScale is the initial raster export scale; Scale multiplies the
// rendered pixel dimensions.
const DefaultScale = 2

// Exporter produces the downloadable artifacts for a plotted dataset. SVG
// and CSV are always available; PNG and PDF need a rasterizer on the host.
type Exporter struct {
	renderer *render.Renderer
	raster   ports.RasterizerPort
	log      *internal.Logger
}

func NewExporter(renderer *render.Renderer, raster ports.RasterizerPort) *Exporter {
	return &Exporter{
		renderer: renderer,
		raster:   raster,
		log:      internal.DefaultLogger.Named("Export"),
	}
}

// RasterAvailable reports whether PNG and PDF downloads can be offered.
func (e *Exporter) RasterAvailable() bool {
	return e.raster != nil && e.raster.Available()
}

// SVG renders the scene as a standalone SVG document.
func (e *Exporter) SVG(sc render.Scene) []byte {
	return e.renderer.Render(sc)
}

// CSV writes the reshaped records back out as two-column CSV, the same rows
// the statistics ran on.
func (e *Exporter) CSV(records []table.GroupRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Group", "Value"}); err != nil {
		return nil, errors.Wrap(err, "writing csv header")
	}
	for _, rec := range records {
		row := []string{rec.Group, strconv.FormatFloat(rec.Value, 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "writing csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flushing csv")
	}
	return buf.Bytes(), nil
}

// PNG re-renders the scene at the requested scale, optionally without the
// white canvas, and rasterizes it. Scale is clamped to [1, 10].
func (e *Exporter) PNG(ctx context.Context, sc render.Scene, scale int, transparent bool) ([]byte, error) {
	if !e.RasterAvailable() {
		return nil, errors.ExportUnavailable("png export needs a rasterizer on this host")
	}
	sc.Style.Transparent = transparent
	return e.raster.Rasterize(ctx, e.renderer.Render(sc), ports.RasterPNG, ports.RasterOptions{
		Scale:       clampScale(scale),
		Transparent: transparent,
	})
}

// PDF rasterizes the scene as a single-page PDF at native size.
func (e *Exporter) PDF(ctx context.Context, sc render.Scene) ([]byte, error) {
	if !e.RasterAvailable() {
		return nil, errors.ExportUnavailable("pdf export needs a rasterizer on this host")
	}
	return e.raster.Rasterize(ctx, e.renderer.Render(sc), ports.RasterPDF, ports.RasterOptions{Scale: 1})
}

func clampScale(scale int) int {
	if scale < 1 {
		return 1
	}
	if scale > 10 {
		return 10
	}
	return scale
}
