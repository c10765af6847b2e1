package catalog

import (
	"context"
	"io"
	"time"
)

// Payload is the raw dataset file: an ordered header list plus rows keyed by
// those headers. Either part may be missing in a malformed file.
type Payload struct {
	Headers []string         `json:"headers"`
	Data    []map[string]any `json:"data"`
}

// FetchedDocument represents the raw result of a fetch operation.
type FetchedDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        io.ReadCloser
	FetchedAt   time.Time
}

// Fetcher retrieves the dataset file. Implementations must not serve cached copies.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (*FetchedDocument, error)
}
