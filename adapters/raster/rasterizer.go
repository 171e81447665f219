package raster

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sync/semaphore"

	"raincloud/internal"
	"raincloud/internal/errors"
	"raincloud/ports"
)

// maxConcurrentRasters caps how many rasterizer processes run at once.
const maxConcurrentRasters = 2

// Tool shells out to an external SVG rasterizer (rsvg-convert by default)
// to produce PNG and PDF exports. Implements ports.RasterizerPort.
//
// The binary is probed once at startup. When it is missing the tool stays
// usable in the degraded sense: Available reports false, Rasterize returns
// an EXPORT_UNAVAILABLE error, and the UI hides the raster controls.
type Tool struct {
	binary string
	path   string
	sem    *semaphore.Weighted
	log    *internal.Logger
}

// Detect probes PATH for the given rasterizer binary.
func Detect(binary string) *Tool {
	t := &Tool{
		binary: binary,
		sem:    semaphore.NewWeighted(maxConcurrentRasters),
		log:    internal.DefaultLogger.Named("Rasterizer"),
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		t.log.Warn("rasterizer %q not found, PNG/PDF export disabled: %v", binary, err)
		return t
	}
	t.path = path
	t.log.Info("rasterizer available: %s", path)
	return t
}

// Available reports whether raster export is possible.
func (t *Tool) Available() bool {
	return t.path != ""
}

// Rasterize converts SVG bytes to the requested format via the external tool.
func (t *Tool) Rasterize(ctx context.Context, svg []byte, format ports.RasterFormat, opts ports.RasterOptions) ([]byte, error) {
	if t.path == "" {
		return nil, errors.ExportUnavailable(fmt.Sprintf("rasterizer %q is not installed", t.binary))
	}
	if format != ports.RasterPNG && format != ports.RasterPDF {
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported raster format %q", format))
	}

	if err := t.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "waiting for rasterizer slot")
	}
	defer t.sem.Release(1)

	args := []string{"--format", string(format)}
	if opts.Scale > 1 {
		args = append(args, "--zoom", strconv.Itoa(opts.Scale))
	}
	// PDF output is always composited on white; only PNG honors transparency.
	if format == ports.RasterPNG && !opts.Transparent {
		args = append(args, "--background-color", "white")
	}

	cmd := exec.CommandContext(ctx, t.path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "rasterizer failed"
		}
		return nil, errors.Wrapf(err, "rasterize to %s: %s", format, msg)
	}

	t.log.Debug("rasterized %d SVG bytes to %d %s bytes", len(svg), out.Len(), format)
	return out.Bytes(), nil
}
