// Package favorites persists the user's saved scholarships.
//
// Every Store call blocks until the backing medium confirms the operation and
// is atomic on its own. Concurrent writes to the same identifier resolve as
// last-writer-wins; nothing spans more than one identifier.
package favorites

import (
	"context"
	"errors"

	"github.com/david/scholarship-finder/internal/models"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("favorites store is closed")

// Store is the favorites persistence contract.
type Store interface {
	// List returns all saved favorites in no particular order.
	List(ctx context.Context) ([]models.Favorite, error)
	Contains(ctx context.Context, id string) (bool, error)
	// Add upserts by identifier.
	Add(ctx context.Context, fav models.Favorite) error
	// Remove is a no-op when id is not saved.
	Remove(ctx context.Context, id string) error
	Close() error
}

// IDSet turns a favorites list into the identifier set used by the query engine.
func IDSet(favs []models.Favorite) map[string]struct{} {
	set := make(map[string]struct{}, len(favs))
	for _, f := range favs {
		set[f.ID] = struct{}{}
	}
	return set
}
