// Package present turns query results into display cards and renders them.
package present

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/query"
)

// DefaultTitle is shown for records without a name.
const DefaultTitle = "Untitled Scholarship"

// DefaultDeadlineWindow is how close a deadline must be to earn the badge.
const DefaultDeadlineWindow = 21 * 24 * time.Hour

// Detail is one labeled value in a card's key-value block.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the display description of one record. Empty optional fields are
// left out entirely, never rendered as blank slots.
type Card struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	About        string   `json:"about,omitempty"`
	Chips        []string `json:"chips,omitempty"`
	Details      []Detail `json:"details,omitempty"`
	Link         string   `json:"link,omitempty"`
	DeadlineSoon bool     `json:"deadline_soon"`
	Saved        bool     `json:"saved"`
}

var strictPolicy = bluemonday.StrictPolicy()

// plainText strips any markup carried in the dataset and collapses whitespace.
// The result is unescaped text; escaping happens at render time.
func plainText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// linkTarget trims the website value and percent-encodes spaces.
func linkTarget(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "%20")
}

// BuildCard describes rec for display. window bounds the deadline badge and is
// inclusive; a zero window falls back to DefaultDeadlineWindow.
func BuildCard(rec models.Record, saved bool, now time.Time, window time.Duration) Card {
	if window <= 0 {
		window = DefaultDeadlineWindow
	}

	card := Card{
		ID:    rec.ID,
		Title: plainText(rec.Name()),
		About: plainText(rec.Get(models.FieldAbout)),
		Saved: saved,
	}
	if card.Title == "" {
		card.Title = DefaultTitle
	}

	addChip := func(field, format string) {
		if v := plainText(rec.Get(field)); v != "" {
			card.Chips = append(card.Chips, fmt.Sprintf(format, v))
		}
	}
	addChip(models.FieldLevel, "%s")
	addChip(models.FieldGrade, "%s")
	addChip(models.FieldGPA, "GPA %s")
	addChip(models.FieldGeography, "%s")
	addChip(models.FieldFinancialNeed, "Financial need: %s")
	addChip(models.FieldMajor, "%s")

	addDetail := func(label, field string) {
		if v := plainText(rec.Get(field)); v != "" {
			card.Details = append(card.Details, Detail{Label: label, Value: v})
		}
	}
	addDetail("Amount", models.FieldAmount)
	addDetail("Awards", models.FieldAwards)
	addDetail("Opens", models.FieldOpenDate)
	addDetail("Closes", models.FieldCloseDate)

	if rec.Has(models.FieldWebsite) {
		card.Link = linkTarget(rec.Get(models.FieldWebsite))
	}

	if closes, ok := query.ParseCloseDate(rec.Get(models.FieldCloseDate)); ok {
		left := closes.Sub(now)
		card.DeadlineSoon = left >= 0 && left <= window
	}

	return card
}

// BuildCards maps every record to a card, marking those in saved.
func BuildCards(records []models.Record, saved map[string]struct{}, now time.Time, window time.Duration) []Card {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		_, ok := saved[r.ID]
		cards = append(cards, BuildCard(r, ok, now, window))
	}
	return cards
}

// CountLabel is the result count line shown above the cards.
func CountLabel(n int, favoritesView bool) string {
	label := fmt.Sprintf("%d results", n)
	if n == 1 {
		label = "1 result"
	}
	if favoritesView {
		label += " (favorites)"
	}
	return label
}
