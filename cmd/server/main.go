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

	"github.com/david/scholarship-finder/internal/api"
	"github.com/david/scholarship-finder/internal/app"
	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/favorites"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	schema, err := catalog.LoadSchema(cfg.SchemaPath)
	if err != nil {
		log.Fatalf("Failed to load field schema: %v", err)
	}

	store := favorites.Open(cfg.FavoritesOptions())
	defer store.Close()

	src := app.Source{
		Fetcher: catalog.NewFetcher(cfg.DatasetURL, cfg.DatasetFetcher),
		URL:     cfg.DatasetURL,
		Schema:  schema,
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	state := app.Load(loadCtx, store, src)
	cancel()

	srv, err := api.NewServer(api.Options{
		State:          state,
		Store:          store,
		Source:         src,
		DeadlineWindow: cfg.DeadlineWindow,
		CORSOrigins:    cfg.CORSOrigins,
		AdminSecret:    cfg.AdminSecret,
	})
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	go func() {
		log.Printf("Server starting on port %s with %d scholarships...", cfg.Port, len(state.Records))
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
