package app

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/favorites"
	"github.com/david/scholarship-finder/internal/models"
)

const (
	datasetFailedNotice   = "The scholarship list could not be loaded. Showing an empty catalog."
	favoritesFailedNotice = "Your saved favorites could not be loaded."
)

// Source says where the dataset comes from and how to read it.
type Source struct {
	Fetcher catalog.Fetcher
	URL     string
	Schema  *catalog.Schema
}

// Load reads the favorites list and fetches the dataset concurrently, then
// builds the initial state. Neither failure is fatal: a missing dataset gives
// an empty catalog and unreadable favorites give an empty set, each with a
// notice.
func Load(ctx context.Context, store favorites.Store, src Source) State {
	var (
		records            []models.Record
		favs               []models.Favorite
		datasetErr, favErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		favs, favErr = store.List(ctx)
		return nil
	})
	g.Go(func() error {
		records, datasetErr = catalog.Load(ctx, src.Fetcher, src.URL, src.Schema)
		return nil
	})
	_ = g.Wait()

	var notices []string
	if datasetErr != nil {
		log.Printf("[app] dataset unavailable: %v", datasetErr)
		records = nil
		notices = append(notices, datasetFailedNotice)
	}
	if favErr != nil {
		log.Printf("[app] favorites unavailable: %v", favErr)
		favs = nil
		notices = append(notices, favoritesFailedNotice)
	}

	s := NewState(records, favorites.IDSet(favs))
	s.DatasetErr = datasetErr
	s.loadNotice = strings.Join(notices, " ")
	return s.requery()
}

// Reload fetches the dataset again and rebuilds the state, keeping the
// favorite set and the current view. On failure the previous state is
// returned with the error.
func Reload(ctx context.Context, s State, src Source) (State, error) {
	records, err := catalog.Load(ctx, src.Fetcher, src.URL, src.Schema)
	if err != nil {
		log.Printf("[app] reload failed: %v", err)
		return s, err
	}

	next := NewState(records, s.Favorites)
	next.Filter = s.Filter
	next.Sort = s.Sort
	next.FavoritesView = s.FavoritesView
	return next.requery(), nil
}
