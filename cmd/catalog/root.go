package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/david/scholarship-finder/internal/app"
	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/config"
	"github.com/david/scholarship-finder/internal/favorites"
)

var datasetURL string

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Search the scholarship catalog and manage saved favorites",
	Long: `catalog works on the same dataset and favorites store as the web server.
Configuration comes from the environment or a .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&datasetURL, "dataset", "", "Dataset URL or path (overrides DATASET_URL)")
}

// session is a loaded catalog plus the favorites store it was seeded from.
type session struct {
	cfg   config.Config
	store *favorites.Lazy
	state app.State
}

func (s *session) Close() error {
	return s.store.Close()
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if datasetURL != "" {
		cfg.DatasetURL = datasetURL
	}

	schema, err := catalog.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, err
	}

	store := favorites.Open(cfg.FavoritesOptions())
	state := app.Load(ctx, store, app.Source{
		Fetcher: catalog.NewFetcher(cfg.DatasetURL, cfg.DatasetFetcher),
		URL:     cfg.DatasetURL,
		Schema:  schema,
	})
	return &session{cfg: cfg, store: store, state: state}, nil
}
