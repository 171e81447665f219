package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raincloud/adapters/raster"
	"raincloud/adapters/rng"
	"raincloud/adapters/tabular"
	"raincloud/app"
	"raincloud/internal/analysis"
	"raincloud/internal/config"
	"raincloud/internal/export"
	"raincloud/internal/palette"
	"raincloud/internal/render"
	"raincloud/internal/report"
	"raincloud/internal/session"
	"raincloud/ui"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	renderer := render.NewRenderer(cfg.Plot.DensityGrid)
	palettes := palette.NewRegistry()

	plots := app.NewPlotService(
		rng.NewSource(),
		renderer,
		analysis.NewEngine(),
		report.NewBuilder(),
		palettes,
		cfg.Plot.JitterSeed,
		cfg.Upload.MaxColumns,
	)

	// Probe for the external rasterizer; raster exports degrade gracefully
	// when it is missing.
	rasterizer := raster.Detect(cfg.Export.Rasterizer)

	webApp, err := ui.NewApp(
		session.NewStore(),
		tabular.NewReader(),
		plots,
		export.NewExporter(renderer, rasterizer),
		palettes,
		ui.Config{MaxUploadBytes: cfg.Upload.MaxBytes},
	)
	if err != nil {
		log.Fatalf("Failed to initialize web app: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           webApp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("Starting raincloud server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
