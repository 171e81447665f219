package ports

import (
	"context"
)

// RasterFormat enumerates the formats the rasterizer can produce from SVG.
type RasterFormat string

const (
	RasterPNG RasterFormat = "png"
	RasterPDF RasterFormat = "pdf"
)

// RasterOptions control raster output.
type RasterOptions struct {
	Scale       int  // 1..10 multiplier on the SVG's nominal pixel size
	Transparent bool // keep the background transparent instead of white
}

// RasterizerPort converts the rendered SVG chart into raster/print formats.
// The capability is optional: when the backing tool is missing, Available
// returns false, raster export controls are hidden, and everything else
// (plot, tables, SVG/CSV export) is unaffected.
type RasterizerPort interface {
	Available() bool
	Rasterize(ctx context.Context, svg []byte, format RasterFormat, opts RasterOptions) ([]byte, error)
}
