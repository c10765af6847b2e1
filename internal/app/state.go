// Package app holds the application state and the event handlers that move it
// forward. Handlers take the current State and return the next one; the only
// side effects are the favorites store calls made by Controller.
package app

import (
	"time"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/present"
	"github.com/david/scholarship-finder/internal/query"
)

// State is one snapshot of the catalog view. Records are shared between
// snapshots and never modified; the favorite set is copied on write.
type State struct {
	Records     []models.Record
	Suggestions catalog.Suggestions
	Favorites   map[string]struct{}

	Filter        query.Filter
	Sort          query.SortMode
	FavoritesView bool

	// Results is what is currently displayed, post filter and sort.
	Results []models.Record
	Notice  string

	// DatasetErr is set when the dataset could not be loaded.
	DatasetErr error
	loadNotice string
}

// NewState builds the initial view over records and runs the first query.
func NewState(records []models.Record, favs map[string]struct{}) State {
	if records == nil {
		records = []models.Record{}
	}
	if favs == nil {
		favs = map[string]struct{}{}
	}
	s := State{
		Records:     records,
		Suggestions: catalog.BuildSuggestions(records),
		Favorites:   favs,
		Filter:      query.Filter{Citizenship: query.CitizenshipAny},
		Sort:        query.SortRelevance,
	}
	return s.requery()
}

func (s State) requery() State {
	s.Filter.FavoritesOnly = s.FavoritesView
	s.Results = query.Run(s.Records, s.Filter, s.Sort, s.Favorites)
	s.Notice = s.loadNotice
	return s
}

// Submit applies a new filter. The favorites view flag is kept.
func (s State) Submit(f query.Filter) State {
	if f.Citizenship == "" {
		f.Citizenship = query.CitizenshipAny
	}
	s.Filter = f
	return s.requery()
}

func (s State) ChangeSort(mode query.SortMode) State {
	if mode == "" {
		mode = query.SortRelevance
	}
	s.Sort = mode
	return s.requery()
}

// ShowFavorites switches between all records and favorites only.
func (s State) ShowFavorites(on bool) State {
	s.FavoritesView = on
	return s.requery()
}

// View applies filter, sort and view mode together as one event.
func (s State) View(f query.Filter, mode query.SortMode, favoritesView bool) State {
	if f.Citizenship == "" {
		f.Citizenship = query.CitizenshipAny
	}
	if mode == "" {
		mode = query.SortRelevance
	}
	s.Filter = f
	s.Sort = mode
	s.FavoritesView = favoritesView
	return s.requery()
}

// Reset clears every input and returns to the full list.
func (s State) Reset() State {
	s.Filter = query.Filter{Citizenship: query.CitizenshipAny}
	s.Sort = query.SortRelevance
	s.FavoritesView = false
	return s.requery()
}

// Count is the number of displayed results.
func (s State) Count() int {
	return len(s.Results)
}

func (s State) Label() string {
	return present.CountLabel(s.Count(), s.FavoritesView)
}

func (s State) IsFavorite(id string) bool {
	_, ok := s.Favorites[id]
	return ok
}

// Lookup finds the first record carrying id.
func (s State) Lookup(id string) (models.Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}

// Cards describes the displayed results.
func (s State) Cards(now time.Time, window time.Duration) []present.Card {
	return present.BuildCards(s.Results, s.Favorites, now, window)
}

// withFavorite updates the cached favorite set after the store has confirmed
// the change. Un-saving in the favorites view drops the card from Results
// without re-running the query.
func (s State) withFavorite(id string, saved bool) State {
	favs := make(map[string]struct{}, len(s.Favorites)+1)
	for k := range s.Favorites {
		favs[k] = struct{}{}
	}
	if saved {
		favs[id] = struct{}{}
	} else {
		delete(favs, id)
	}
	s.Favorites = favs

	if !saved && s.FavoritesView {
		kept := make([]models.Record, 0, len(s.Results))
		for _, r := range s.Results {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		s.Results = kept
	}
	s.Notice = s.loadNotice
	return s
}
