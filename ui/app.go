package ui

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"raincloud/app"
	"raincloud/internal"
	"raincloud/internal/errors"
	"raincloud/internal/export"
	"raincloud/internal/palette"
	"raincloud/internal/session"
	"raincloud/ports"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the single-page web application: one upload slot, one plot, one
// settings panel. All state lives in the session store and the cached last
// pass; nothing is persisted.
type App struct {
	router    *chi.Mux
	templates *template.Template
	store     *session.Store
	reader    ports.TableReaderPort
	plots     *app.PlotService
	exporter  *export.Exporter
	palettes  *palette.Registry
	cfg       Config
	log       *internal.Logger

	mu       sync.RWMutex
	settings Settings
	last     *app.PassResult
}

// Config holds UI application configuration.
type Config struct {
	MaxUploadBytes int64
}

// NewApp wires the web layer over the pass pipeline.
func NewApp(
	store *session.Store,
	reader ports.TableReaderPort,
	plots *app.PlotService,
	exporter *export.Exporter,
	palettes *palette.Registry,
	cfg Config,
) (*App, error) {
	funcMap := template.FuncMap{
		"num": func(v float64) string {
			if math.IsNaN(v) {
				return ""
			}
			return strconv.FormatFloat(v, 'g', -1, 64)
		},
		"numptr": func(v *float64) string {
			if v == nil || math.IsNaN(*v) {
				return ""
			}
			return strconv.FormatFloat(*v, 'g', -1, 64)
		},
		"yesno": func(b bool) string {
			if b {
				return "yes"
			}
			return "no"
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	a := &App{
		router:    chi.NewRouter(),
		templates: templates,
		store:     store,
		reader:    reader,
		plots:     plots,
		exporter:  exporter,
		palettes:  palettes,
		cfg:       cfg,
		settings:  DefaultSettings(),
		log:       internal.DefaultLogger.Named("UI"),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/upload", a.handleUpload)
	a.router.Post("/settings", a.handleSettings)
	a.router.Post("/clear", a.handleClear)

	a.router.Get("/export/svg", a.handleExportSVG)
	a.router.Get("/export/png", a.handleExportPNG)
	a.router.Get("/export/pdf", a.handleExportPDF)
	a.router.Get("/export/csv", a.handleExportCSV)
	a.router.Get("/report", a.handleReportView)
	a.router.Get("/report.md", a.handleReport)
}

// Handler exposes the router so the caller owns the http.Server.
func (a *App) Handler() http.Handler {
	return a.router
}

// snapshot returns the current settings and last pass under the read lock.
func (a *App) snapshot() (Settings, *app.PassResult) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings, a.last
}

// refresh re-runs the pass against the stored dataset with current settings.
// With no dataset there is nothing to run and any stale result is dropped.
func (a *App) refresh(ctx context.Context) error {
	ds, ok := a.store.Current()
	if !ok {
		a.mu.Lock()
		a.last = nil
		a.mu.Unlock()
		return nil
	}

	settings, _ := a.snapshot()
	res, err := a.plots.RunPass(ctx, app.PassRequest{
		Dataset:  ds,
		TestType: settings.TestType,
		Layout:   settings.Layout,
		Style:    settings.Style,
	})
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.last = res
	a.mu.Unlock()
	return nil
}

// renderTemplate renders to a buffer first so template errors become a clean
// 500 instead of a half-written page.
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.log.Error("template %s failed: %v", templateName, err)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		a.log.Error("writing template response: %v", err)
	}
}
