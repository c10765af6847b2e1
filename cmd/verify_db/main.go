package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/favorites"
)

// Cross-checks the favorites store against the current dataset.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	schema, err := catalog.LoadSchema(cfg.SchemaPath)
	if err != nil {
		log.Fatalf("Failed to load field schema: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store := favorites.Open(cfg.FavoritesOptions())
	defer store.Close()

	favs, err := store.List(ctx)
	if err != nil {
		log.Fatalf("Unable to read favorites (%s): %v", cfg.FavoritesBackend, err)
	}

	records, err := catalog.Load(ctx, catalog.NewFetcher(cfg.DatasetURL, cfg.DatasetFetcher), cfg.DatasetURL, schema)
	if err != nil {
		log.Fatalf("Unable to load dataset: %v", err)
	}

	perID := make(map[string]int, len(records))
	for _, r := range records {
		perID[r.ID]++
	}
	collisions := 0
	for _, n := range perID {
		if n > 1 {
			collisions += n
		}
	}

	var orphaned []string
	for _, f := range favs {
		if perID[f.ID] == 0 {
			orphaned = append(orphaned, f.ID)
		}
	}

	fmt.Printf("Favorites backend: %s\n", cfg.FavoritesBackend)
	fmt.Printf("Records: %d\n", len(records))
	fmt.Printf("Records sharing an ID: %d\n", collisions)
	fmt.Printf("Favorites: %d\n", len(favs))
	fmt.Printf("Favorites not in dataset: %d\n", len(orphaned))
	for _, id := range orphaned {
		fmt.Printf("  - %s\n", id)
	}
}
