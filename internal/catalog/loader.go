package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/david/scholarship-finder/internal/models"
)

// Load fetches the dataset fresh from source and normalizes it.
//
// A payload that parses but lacks headers or rows is not an error: it yields
// an empty record set. Fetch and JSON failures are returned to the caller,
// which decides the fallback.
func Load(ctx context.Context, fetcher Fetcher, source string, schema *Schema) ([]models.Record, error) {
	doc, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer doc.Body.Close()

	payload, err := DecodePayload(doc.Body)
	if errors.Is(err, ErrMalformedPayload) {
		log.Printf("[catalog] %s: %v; continuing with an empty dataset", source, err)
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records := Normalize(payload, schema)
	log.Printf("[catalog] loaded %d records from %s", len(records), source)
	return records, nil
}
