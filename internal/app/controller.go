package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/david/scholarship-finder/internal/favorites"
	"github.com/david/scholarship-finder/internal/models"
)

// ErrUnknownRecord is returned when saving an identifier that is not in the dataset.
var ErrUnknownRecord = errors.New("no scholarship with that identifier")

const favoriteFailedNotice = "Your favorites could not be updated. Please try again."

// Controller applies favorite changes to the store and then to the state.
type Controller struct {
	Store favorites.Store
	Now   func() time.Time
}

func NewController(store favorites.Store) *Controller {
	return &Controller{Store: store, Now: time.Now}
}

// ToggleFavorite flips the saved state of id.
func (c *Controller) ToggleFavorite(ctx context.Context, s State, id string) (State, error) {
	return c.SetFavorite(ctx, s, id, !s.IsFavorite(id))
}

// SetFavorite saves or un-saves id. The store is written first; the cached
// set only changes once the store confirms. On failure the state comes back
// unchanged apart from a notice.
func (c *Controller) SetFavorite(ctx context.Context, s State, id string, saved bool) (State, error) {
	if saved {
		rec, ok := s.Lookup(id)
		if !ok {
			return s, ErrUnknownRecord
		}
		fav := models.Favorite{ID: id, Name: rec.Name(), SavedAt: c.Now().UTC()}
		if err := c.Store.Add(ctx, fav); err != nil {
			log.Printf("[favorites] add %q failed: %v", id, err)
			s.Notice = favoriteFailedNotice
			return s, fmt.Errorf("save favorite: %w", err)
		}
	} else {
		if err := c.Store.Remove(ctx, id); err != nil {
			log.Printf("[favorites] remove %q failed: %v", id, err)
			s.Notice = favoriteFailedNotice
			return s, fmt.Errorf("remove favorite: %w", err)
		}
	}
	return s.withFavorite(id, saved), nil
}

// List returns the persisted favorites.
func (c *Controller) List(ctx context.Context) ([]models.Favorite, error) {
	return c.Store.List(ctx)
}
