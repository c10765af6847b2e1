package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/favorites"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/query"
)

const dataset = `{
  "headers": ["Name", "Citizenship", "Major", "Amount", "Close Date", "Grade", "Level"],
  "data": [
    {"Name": "Citizens Award", "Citizenship": "US citizens only", "Amount": "$1,000", "Close Date": "2027-03-01", "Grade": "Senior"},
    {"Name": "Open Award", "Major": "stem research", "Amount": "$500 - $2,000", "Close Date": "2027-01-15", "Level": "Undergraduate"}
  ]
}`

type stubFetcher struct {
	body string
	err  error
}

func (f stubFetcher) Fetch(ctx context.Context, source string) (*catalog.FetchedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.FetchedDocument{
		Body:      io.NopCloser(strings.NewReader(f.body)),
		FetchedAt: time.Now(),
	}, nil
}

// failingStore rejects every call.
type failingStore struct{ err error }

func (s failingStore) List(ctx context.Context) ([]models.Favorite, error) { return nil, s.err }
func (s failingStore) Contains(ctx context.Context, id string) (bool, error) {
	return false, s.err
}
func (s failingStore) Add(ctx context.Context, fav models.Favorite) error { return s.err }
func (s failingStore) Remove(ctx context.Context, id string) error { return s.err }
func (s failingStore) Close() error { return nil }

func source(body string) Source {
	return Source{Fetcher: stubFetcher{body: body}, URL: "test://dataset", Schema: catalog.DefaultSchema()}
}

func loadState(t *testing.T, store favorites.Store) State {
	t.Helper()
	return Load(context.Background(), store, source(dataset))
}

func TestLoad_SeedsFavoritesAndRunsInitialQuery(t *testing.T) {
	store := favorites.NewMemoryStore()
	require.NoError(t, store.Add(context.Background(), models.Favorite{ID: "open award2027-01-15"}))

	s := loadState(t, store)
	require.NoError(t, s.DatasetErr)
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, "2 results", s.Label())
	assert.Empty(t, s.Notice)
	assert.True(t, s.IsFavorite("open award2027-01-15"))
	assert.Equal(t, []string{"Senior"}, s.Suggestions.Grades)
	assert.Equal(t, []string{"Undergraduate"}, s.Suggestions.Levels)
}

func TestLoad_DatasetFailureGivesEmptyCatalog(t *testing.T) {
	src := Source{Fetcher: stubFetcher{err: errors.New("connection refused")}, URL: "x", Schema: catalog.DefaultSchema()}
	s := Load(context.Background(), favorites.NewMemoryStore(), src)

	assert.Error(t, s.DatasetErr)
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, datasetFailedNotice, s.Notice)

	// the notice survives later events
	s = s.Submit(query.Filter{Text: "anything"})
	assert.Equal(t, datasetFailedNotice, s.Notice)
}

func TestLoad_MalformedDatasetIsEmptyWithoutNotice(t *testing.T) {
	s := Load(context.Background(), favorites.NewMemoryStore(), source(`{"headers": ["Name"]}`))
	assert.NoError(t, s.DatasetErr)
	assert.Equal(t, 0, s.Count())
	assert.Empty(t, s.Notice)
}

func TestLoad_FavoritesFailureGivesEmptySet(t *testing.T) {
	s := Load(context.Background(), failingStore{err: errors.New("locked")}, source(dataset))
	assert.Equal(t, 2, s.Count())
	assert.Empty(t, s.Favorites)
	assert.Equal(t, favoritesFailedNotice, s.Notice)
}

func TestState_Events(t *testing.T) {
	s := loadState(t, favorites.NewMemoryStore())

	s = s.Submit(query.Filter{Text: "STEM"})
	require.Equal(t, 1, s.Count())
	assert.Equal(t, "Open Award", s.Results[0].Name())

	s = s.Submit(query.Filter{Citizenship: query.CitizenshipUSOnly})
	require.Equal(t, 1, s.Count())
	assert.Equal(t, "Citizens Award", s.Results[0].Name())

	s = s.Submit(query.Filter{}).ChangeSort(query.SortAmount)
	require.Equal(t, 2, s.Count())
	assert.Equal(t, "Open Award", s.Results[0].Name())

	s = s.ChangeSort(query.SortName)
	assert.Equal(t, "Citizens Award", s.Results[0].Name())

	s = s.ShowFavorites(true)
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, "0 results (favorites)", s.Label())

	s = s.Reset()
	assert.False(t, s.FavoritesView)
	assert.Equal(t, query.SortRelevance, s.Sort)
	assert.Equal(t, 2, s.Count())
}

func TestController_ToggleWritesThrough(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()
	ctl := NewController(store)
	s := loadState(t, store)
	id := s.Records[0].ID

	next, err := ctl.ToggleFavorite(ctx, s, id)
	require.NoError(t, err)
	assert.True(t, next.IsFavorite(id))
	assert.False(t, s.IsFavorite(id), "previous state is untouched")

	ok, err := store.Contains(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	favs, err := ctl.List(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Citizens Award", favs[0].Name)

	next, err = ctl.ToggleFavorite(ctx, next, id)
	require.NoError(t, err)
	assert.False(t, next.IsFavorite(id))
	ok, err = store.Contains(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestController_UnsaveInFavoritesViewDropsCard(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()
	ctl := NewController(store)
	s := loadState(t, store)

	for _, r := range s.Records {
		var err error
		s, err = ctl.SetFavorite(ctx, s, r.ID, true)
		require.NoError(t, err)
	}
	s = s.ShowFavorites(true)
	require.Equal(t, 2, s.Count())

	s, err := ctl.ToggleFavorite(ctx, s, s.Results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, "1 result (favorites)", s.Label())
	assert.Len(t, s.Cards(time.Now(), 0), s.Count())
}

func TestController_SetFavoriteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()
	ctl := NewController(store)
	s := loadState(t, store)
	id := s.Records[1].ID

	for i := 0; i < 2; i++ {
		var err error
		s, err = ctl.SetFavorite(ctx, s, id, true)
		require.NoError(t, err)
	}
	favs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	for i := 0; i < 2; i++ {
		s, err = ctl.SetFavorite(ctx, s, id, false)
		require.NoError(t, err)
	}
	assert.Empty(t, s.Favorites)
}

func TestController_StoreFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s := loadState(t, favorites.NewMemoryStore())
	ctl := NewController(failingStore{err: errors.New("disk full")})
	id := s.Records[0].ID

	next, err := ctl.ToggleFavorite(ctx, s, id)
	require.Error(t, err)
	assert.False(t, next.IsFavorite(id))
	assert.Equal(t, s.Count(), next.Count())
	assert.Equal(t, favoriteFailedNotice, next.Notice)
}

func TestController_UnknownRecord(t *testing.T) {
	s := loadState(t, favorites.NewMemoryStore())
	_, err := NewController(favorites.NewMemoryStore()).SetFavorite(context.Background(), s, "nope", true)
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestReload_KeepsViewAndFavorites(t *testing.T) {
	ctx := context.Background()
	store := favorites.NewMemoryStore()
	s := loadState(t, store)
	s, err := NewController(store).SetFavorite(ctx, s, s.Records[0].ID, true)
	require.NoError(t, err)
	s = s.ChangeSort(query.SortDeadline)

	bigger := strings.Replace(dataset, `"data": [`, `"data": [
    {"Name": "New Award", "Close Date": "2026-12-01"},`, 1)
	next, err := Reload(ctx, s, source(bigger))
	require.NoError(t, err)
	assert.Equal(t, 3, next.Count())
	assert.Equal(t, "New Award", next.Results[0].Name())
	assert.Equal(t, query.SortDeadline, next.Sort)
	assert.True(t, next.IsFavorite(s.Records[0].ID))

	src := Source{Fetcher: stubFetcher{err: errors.New("timeout")}, Schema: catalog.DefaultSchema()}
	same, err := Reload(ctx, next, src)
	assert.Error(t, err)
	assert.Equal(t, next.Count(), same.Count())
}
