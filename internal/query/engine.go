// Package query filters and orders the in-memory scholarship records.
//
// Nothing here returns an error: unparseable amounts and dates degrade to
// sentinel values so that every record stays in the result set.
package query

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/david/scholarship-finder/internal/models"
)

// SortMode names a result ordering.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortName      SortMode = "name"
	SortAmount    SortMode = "amount"
	SortDeadline  SortMode = "deadline"
)

// ParseSortMode maps a selector value onto a mode; unknown values mean relevance.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "name_asc", "name-asc":
		return SortName
	case "amount", "amount_desc", "amount-desc":
		return SortAmount
	case "deadline", "close", "close_asc", "deadline_asc":
		return SortDeadline
	default:
		return SortRelevance
	}
}

// Run returns the records that pass every active predicate, ordered by mode.
// favoriteIDs is consulted only when the filter is favorites-only. The input
// slice is never reordered.
func Run(records []models.Record, f Filter, mode SortMode, favoriteIDs map[string]struct{}) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		if f.FavoritesOnly {
			if _, ok := favoriteIDs[r.ID]; !ok {
				continue
			}
		}
		out = append(out, r)
	}

	Sort(out, mode)
	return out
}

// Sort orders records in place. All orderings are stable.
func Sort(records []models.Record, mode SortMode) {
	switch mode {
	case SortName:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(records, func(i, j int) bool {
			return c.CompareString(records[i].Name(), records[j].Name()) < 0
		})
	case SortAmount:
		sortByKey(records, func(r models.Record) float64 {
			return -AmountValue(r.Get(models.FieldAmount))
		})
	case SortDeadline:
		sortByKey(records, deadlineKey)
	}
}

// sortByKey computes each key once and sorts ascending by it.
func sortByKey(records []models.Record, key func(models.Record) float64) {
	type keyed struct {
		rec models.Record
		key float64
	}
	tmp := make([]keyed, len(records))
	for i, r := range records {
		tmp[i] = keyed{rec: r, key: key(r)}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		return tmp[i].key < tmp[j].key
	})
	for i := range tmp {
		records[i] = tmp[i].rec
	}
}

// deadlineKey is the closing date in Unix seconds, +Inf when missing or unparseable.
func deadlineKey(r models.Record) float64 {
	t, ok := ParseCloseDate(r.Get(models.FieldCloseDate))
	if !ok {
		return math.Inf(1)
	}
	return float64(t.Unix())
}
