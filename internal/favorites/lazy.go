package favorites

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/david/scholarship-finder/internal/db"
	"github.com/david/scholarship-finder/internal/models"
)

// Opener establishes a connection to a backing store.
type Opener func(ctx context.Context) (Store, error)

// Lazy defers opening the backing store until the first call and then reuses
// the connection. A failed open is reported to that caller and retried on the
// next call.
type Lazy struct {
	open Opener

	mu     sync.Mutex
	store  Store
	closed bool
}

func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

func (l *Lazy) get(ctx context.Context) (Store, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if l.store != nil {
		return l.store, nil
	}

	s, err := l.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open favorites store: %w", err)
	}
	l.store = s
	return s, nil
}

func (l *Lazy) List(ctx context.Context) ([]models.Favorite, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (l *Lazy) Contains(ctx context.Context, id string) (bool, error) {
	s, err := l.get(ctx)
	if err != nil {
		return false, err
	}
	return s.Contains(ctx, id)
}

func (l *Lazy) Add(ctx context.Context, fav models.Favorite) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.Add(ctx, fav)
}

func (l *Lazy) Remove(ctx context.Context, id string) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.Remove(ctx, id)
}

// Close closes the backing store if it was ever opened.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.store == nil {
		return nil
	}
	err := l.store.Close()
	l.store = nil
	return err
}

// Options selects and configures a backend.
type Options struct {
	Backend     string // "sqlite" (default), "postgres" or "memory"
	Path        string // sqlite database file
	DatabaseURL string // postgres DSN
}

// Open returns a lazily connected store for the configured backend.
func Open(opts Options) *Lazy {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case "memory":
		return NewLazy(func(ctx context.Context) (Store, error) {
			log.Print("[favorites] using in-memory store; favorites will not survive a restart")
			return NewMemoryStore(), nil
		})
	case "postgres", "postgresql":
		return NewLazy(func(ctx context.Context) (Store, error) {
			pool, err := db.Connect(ctx, opts.DatabaseURL)
			if err != nil {
				return nil, err
			}
			if err := db.ApplyMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Print("[favorites] connected to postgres")
			return db.NewFavoriteStore(pool), nil
		})
	default:
		return NewLazy(func(ctx context.Context) (Store, error) {
			s, err := OpenSQLite(ctx, opts.Path)
			if err != nil {
				return nil, err
			}
			log.Printf("[favorites] using sqlite store at %s", opts.Path)
			return s, nil
		})
	}
}
