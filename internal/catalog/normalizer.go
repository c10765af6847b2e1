package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/david/scholarship-finder/internal/models"
)

// ErrMalformedPayload is returned by DecodePayload when the headers or data list is missing.
var ErrMalformedPayload = errors.New("dataset payload is missing headers or data")

// DecodePayload parses a dataset file. A document that is valid JSON but lacks
// either list yields ErrMalformedPayload together with whatever was decoded.
func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode dataset: %w", err)
	}
	if p.Headers == nil || p.Data == nil {
		return p, ErrMalformedPayload
	}
	return p, nil
}

// Normalize turns a payload into Records, one per row, in row order. Every
// declared header is present on every record; missing values become "".
// A payload without headers or rows normalizes to an empty sequence.
func Normalize(p Payload, schema *Schema) []models.Record {
	if p.Headers == nil || p.Data == nil {
		return []models.Record{}
	}

	keys := make([]string, len(p.Headers))
	for i, h := range p.Headers {
		keys[i] = schema.Resolve(h)
	}

	records := make([]models.Record, 0, len(p.Data))
	seen := make(map[string]struct{}, len(p.Data))
	collisions := 0

	for i, row := range p.Data {
		values := make(map[string]string, len(keys))
		for j, h := range p.Headers {
			v := stringify(row[h])
			// Two headers resolving to the same key: keep the first non-empty one.
			if existing, ok := values[keys[j]]; ok && existing != "" {
				continue
			}
			values[keys[j]] = v
		}

		id := models.RecordID(values[models.FieldName], values[models.FieldCloseDate])
		if _, dup := seen[id]; dup {
			collisions++
		}
		seen[id] = struct{}{}

		records = append(records, models.Record{ID: id, Index: i, Values: values})
	}

	if collisions > 0 {
		log.Printf("[catalog] %d rows share an identifier with an earlier row (same name and close date)", collisions)
	}
	return records
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
