package query

import (
	"regexp"
	"strings"

	"github.com/david/scholarship-finder/internal/models"
)

// CitizenshipMode selects how the citizenship-eligibility text is matched.
type CitizenshipMode string

const (
	CitizenshipAny    CitizenshipMode = "any"
	CitizenshipNonUS  CitizenshipMode = "non_us"
	CitizenshipUSOnly CitizenshipMode = "us_only"
)

// ParseCitizenshipMode maps a selector value onto a mode; unknown values mean "any".
func ParseCitizenshipMode(s string) CitizenshipMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "non_us", "non-us", "nonus", "international":
		return CitizenshipNonUS
	case "us_only", "us-only", "us":
		return CitizenshipUSOnly
	default:
		return CitizenshipAny
	}
}

// Filter is the set of active predicates, rebuilt from the input widgets on every query.
type Filter struct {
	Year          string          `json:"year"`
	Degree        string          `json:"degree"`
	Citizenship   CitizenshipMode `json:"citizenship"`
	Text          string          `json:"q"`
	FavoritesOnly bool            `json:"favorites_only"`
}

var (
	inclusiveCitizenship = regexp.MustCompile(`(?i)non[-\s]?(u\.?s\.?|citizen)|undocumented|\bdaca\b|international|any\s+citizenship|all\s+citizenships?|regardless\s+of\s+citizenship|no\s+citizenship\s+requirement`)
	strictCitizenship    = regexp.MustCompile(`(?i)\bu\.?s\.?\s+citizen|permanent\s+resident|\bu\.?s\.?\s+residen(t|cy)|legal\s+resident|must\s+be\s+a\s+citizen`)
)

// searchFields are the fields the free-text query looks at.
var searchFields = []string{
	models.FieldName,
	models.FieldAudience,
	models.FieldAbout,
	models.FieldAmount,
	models.FieldSchool,
	models.FieldMajor,
	models.FieldGrade,
	models.FieldGPA,
	models.FieldHeritage,
	models.FieldLevel,
	models.FieldGeography,
	models.FieldFinancialNeed,
	models.FieldRequirements,
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func matchYear(r models.Record, year string) bool {
	if year == "" {
		return true
	}
	return containsFold(r.Get(models.FieldGrade), year) || containsFold(r.Get(models.FieldAudience), year)
}

func matchDegree(r models.Record, degree string) bool {
	if degree == "" {
		return true
	}
	return containsFold(r.Get(models.FieldLevel), degree) || containsFold(r.Get(models.FieldAudience), degree)
}

// matchCitizenship is deliberately permissive in the non-US mode: a record that
// states no US requirement is treated as open to non-citizens.
func matchCitizenship(r models.Record, mode CitizenshipMode) bool {
	text := r.Get(models.FieldCitizenship)
	switch mode {
	case CitizenshipNonUS:
		return inclusiveCitizenship.MatchString(text) || !strictCitizenship.MatchString(text)
	case CitizenshipUSOnly:
		return strictCitizenship.MatchString(text)
	default:
		return true
	}
}

func matchText(r models.Record, q string) bool {
	if q == "" {
		return true
	}
	for _, f := range searchFields {
		if containsFold(r.Get(f), q) {
			return true
		}
	}
	return false
}

// Match reports whether a record passes the year, degree, citizenship and
// free-text predicates. The favorites-only restriction is applied by Run.
func (f Filter) Match(r models.Record) bool {
	year := strings.ToLower(strings.TrimSpace(f.Year))
	degree := strings.ToLower(strings.TrimSpace(f.Degree))
	q := strings.ToLower(strings.TrimSpace(f.Text))

	return matchYear(r, year) &&
		matchDegree(r, degree) &&
		matchCitizenship(r, f.Citizenship) &&
		matchText(r, q)
}
