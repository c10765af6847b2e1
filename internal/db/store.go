package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/david/scholarship-finder/internal/models"
)

// FavoriteStore keeps favorites in the Postgres favorites table.
type FavoriteStore struct {
	pool *pgxpool.Pool
}

func NewFavoriteStore(pool *pgxpool.Pool) *FavoriteStore {
	return &FavoriteStore{pool: pool}
}

func (s *FavoriteStore) List(ctx context.Context) ([]models.Favorite, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, saved_at FROM favorites ORDER BY saved_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	favs := []models.Favorite{}
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(&f.ID, &f.Name, &f.SavedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		favs = append(favs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return favs, nil
}

func (s *FavoriteStore) Contains(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM favorites WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists check failed: %w", err)
	}
	return exists, nil
}

func (s *FavoriteStore) Add(ctx context.Context, fav models.Favorite) error {
	savedAt := fav.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO favorites (id, name, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			saved_at = EXCLUDED.saved_at
	`, fav.ID, fav.Name, savedAt)
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

func (s *FavoriteStore) Remove(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM favorites WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *FavoriteStore) Close() error {
	s.pool.Close()
	return nil
}
