package present

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/models"
	"github.com/david/scholarship-finder/internal/query"
)

var now = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

func record(values map[string]string) models.Record {
	return models.Record{
		ID:     models.RecordID(values[models.FieldName], values[models.FieldCloseDate]),
		Values: values,
	}
}

func TestBuildCard_DeadlineWindow(t *testing.T) {
	tests := []struct {
		name  string
		close string
		want  bool
	}{
		{"exactly 21 days", "2026-10-22", true},
		{"22 days", "2026-10-23", false},
		{"today", "2026-10-01", true},
		{"already closed", "2026-09-30", false},
		{"unparseable", "rolling", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(record(map[string]string{
				models.FieldName:      "Award",
				models.FieldCloseDate: tt.close,
			}), false, now, 0)
			assert.Equal(t, tt.want, card.DeadlineSoon)
		})
	}
}

func TestBuildCard_SuppressesBlankFields(t *testing.T) {
	card := BuildCard(record(map[string]string{
		models.FieldName:          "Merit Award",
		models.FieldAmount:        "$1,000",
		models.FieldAwards:        "   ",
		models.FieldGPA:           "3.5",
		models.FieldFinancialNeed: "Yes",
		models.FieldLevel:         "",
	}), true, now, DefaultDeadlineWindow)

	assert.Equal(t, "Merit Award", card.Title)
	assert.Empty(t, card.About)
	assert.Equal(t, []string{"GPA 3.5", "Financial need: Yes"}, card.Chips)
	assert.Equal(t, []Detail{{Label: "Amount", Value: "$1,000"}}, card.Details)
	assert.Empty(t, card.Link)
	assert.True(t, card.Saved)
}

func TestBuildCard_DefaultsAndLink(t *testing.T) {
	card := BuildCard(record(map[string]string{
		models.FieldWebsite: " https://example.org/apply now.pdf ",
	}), false, now, DefaultDeadlineWindow)

	assert.Equal(t, DefaultTitle, card.Title)
	assert.Equal(t, "https://example.org/apply%20now.pdf", card.Link)
}

func TestBuildCard_StripsMarkup(t *testing.T) {
	card := BuildCard(record(map[string]string{
		models.FieldName:  "Fish & Chips <b>Award</b>",
		models.FieldAbout: "Hello<script>alert(1)</script>\n  world",
	}), false, now, DefaultDeadlineWindow)

	assert.Equal(t, "Fish & Chips Award", card.Title)
	assert.NotContains(t, card.About, "<script")
	assert.True(t, strings.HasPrefix(card.About, "Hello"))
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "0 results", CountLabel(0, false))
	assert.Equal(t, "1 result", CountLabel(1, false))
	assert.Equal(t, "3 results", CountLabel(3, false))
	assert.Equal(t, "2 results (favorites)", CountLabel(2, true))
}

func TestRenderer_Page(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	recs := []models.Record{
		record(map[string]string{models.FieldName: "a < b", models.FieldCloseDate: "2026-10-10", models.FieldMajor: "STEM"}),
		record(map[string]string{models.FieldName: "Plain", models.FieldCloseDate: "01/02/2027"}),
	}
	saved := map[string]struct{}{recs[1].ID: {}}
	cards := BuildCards(recs, saved, now, DefaultDeadlineWindow)

	f := query.Filter{Year: "senior", Citizenship: query.CitizenshipNonUS}
	sugg := catalog.Suggestions{Grades: []string{"Junior", "Senior"}, Levels: []string{"Graduate"}}
	data := NewPageData(f, query.SortName, false, sugg, cards, "Could not load favorites")

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, data))
	assert.NotContains(t, buf.String(), "<script")

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "2 results", doc.Find("#count").Text())
	assert.Equal(t, "Could not load favorites", doc.Find(".notice").Text())
	assert.Equal(t, 2, doc.Find("article.card").Length())
	assert.Equal(t, "a < b", doc.Find("article.card h2").First().Text())
	assert.Equal(t, 1, doc.Find(".deadline-soon").Length())
	assert.Equal(t, 2, doc.Find("#grade-suggestions option").Length())

	year, _ := doc.Find(`input[name="year"]`).Attr("value")
	assert.Equal(t, "senior", year)
	assert.Equal(t, "non_us", doc.Find(`select[name="citizenship"] option[selected]`).AttrOr("value", ""))
	assert.Equal(t, "name", doc.Find(`select[name="sort"] option[selected]`).AttrOr("value", ""))

	action := doc.Find("article.card form.favorite").Last().AttrOr("action", "")
	assert.Equal(t, "/favorites/plain01%2F02%2F2027/toggle", action)
	assert.Contains(t, doc.Find("article.card").Last().Find("button").Text(), "Saved")

	favHref := doc.Find("#show-favorites").AttrOr("href", "")
	assert.Contains(t, favHref, "view=favorites")
	assert.Contains(t, favHref, "year=senior")
}

func TestRenderer_EmptyDataset(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	data := NewPageData(query.Filter{}, "", true, catalog.Suggestions{}, nil, "")
	require.NoError(t, r.Page(&buf, data))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "0 results (favorites)", doc.Find("#count").Text())
	assert.Equal(t, 0, doc.Find(".notice").Length())
	assert.Equal(t, 1, doc.Find("#show-all").Length())
}
