package ui

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"raincloud/internal/errors"
	"raincloud/internal/export"
	"raincloud/internal/report"
)

// Export handlers serve the cached figure from the last pass, so downloads
// match the plot on screen point for point.

func (a *App) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	_, last := a.snapshot()
	if last == nil {
		http.Error(w, "No plot to export", http.StatusNotFound)
		return
	}
	serveDownload(w, export.FileSVG, "image/svg+xml", a.exporter.SVG(last.Scene))
}

func (a *App) handleExportPNG(w http.ResponseWriter, r *http.Request) {
	settings, last := a.snapshot()
	if last == nil {
		http.Error(w, "No plot to export", http.StatusNotFound)
		return
	}
	scale := queryInt(r, "scale", settings.ExportScale)
	transparent := queryBool(r, "transparent", settings.ExportTransparent)

	data, err := a.exporter.PNG(r.Context(), last.Scene, scale, transparent)
	if err != nil {
		a.exportError(w, err)
		return
	}
	serveDownload(w, export.FilePNG, "image/png", data)
}

func (a *App) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	_, last := a.snapshot()
	if last == nil {
		http.Error(w, "No plot to export", http.StatusNotFound)
		return
	}
	data, err := a.exporter.PDF(r.Context(), last.Scene)
	if err != nil {
		a.exportError(w, err)
		return
	}
	serveDownload(w, export.FilePDF, "application/pdf", data)
}

func (a *App) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	_, last := a.snapshot()
	if last == nil {
		http.Error(w, "No data to export", http.StatusNotFound)
		return
	}
	data, err := a.exporter.CSV(last.Records)
	if err != nil {
		a.log.Error("csv export failed: %v", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	serveDownload(w, export.FileCSV, "text/csv; charset=utf-8", data)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	_, last := a.snapshot()
	if last == nil {
		http.Error(w, "No report to download", http.StatusNotFound)
		return
	}
	serveDownload(w, report.FileName, "text/markdown; charset=utf-8", last.ReportMD)
}

// handleReportView shows the rendered report as a page.
func (a *App) handleReportView(w http.ResponseWriter, r *http.Request) {
	_, last := a.snapshot()
	if last == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	a.renderTemplate(w, "report.html", struct {
		Title   string
		Content template.HTML
	}{
		Title:   "Analysis Report",
		Content: template.HTML(a.plots.ReportHTML(last.ReportMD)),
	})
}

func (a *App) exportError(w http.ResponseWriter, err error) {
	if errors.HasCode(err, errors.CodeExportUnavailable) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	a.log.Error("export failed: %v", err)
	http.Error(w, "Export failed", http.StatusInternalServerError)
}

func serveDownload(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryBool(r *http.Request, key string, fallback bool) bool {
	if !r.URL.Query().Has(key) {
		return fallback
	}
	switch r.URL.Query().Get(key) {
	case "true", "1", "on":
		return true
	default:
		return false
	}
}
