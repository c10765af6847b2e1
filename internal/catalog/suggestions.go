package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/david/scholarship-finder/internal/models"
)

// Suggestions are the autocomplete lists offered next to the year and degree inputs.
type Suggestions struct {
	Grades []string `json:"grades"`
	Levels []string `json:"levels"`
}

// BuildSuggestions collects grade/audience and level/audience values across all
// records, dropping blanks and case-insensitive duplicates, sorted by locale.
func BuildSuggestions(records []models.Record) Suggestions {
	var grades, levels []string
	for _, r := range records {
		grades = mergeUniqueFold(grades, []string{r.Get(models.FieldGrade), r.Get(models.FieldAudience)})
		levels = mergeUniqueFold(levels, []string{r.Get(models.FieldLevel), r.Get(models.FieldAudience)})
	}

	return Suggestions{
		Grades: collateSorted(grades),
		Levels: collateSorted(levels),
	}
}

func collateSorted(values []string) []string {
	if values == nil {
		return []string{}
	}
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
	return values
}
