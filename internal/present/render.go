package present

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/david/scholarship-finder/internal/catalog"
	"github.com/david/scholarship-finder/internal/query"
)

//go:embed templates/page.html
var templateFS embed.FS

// Option is one entry of a select widget.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// PageData is everything the page template needs.
type PageData struct {
	Filter        query.Filter
	Sort          query.SortMode
	FavoritesView bool
	Suggestions   catalog.Suggestions
	Cards         []Card
	Label         string
	Notice        string

	CitizenshipOptions []Option
	SortOptions        []Option

	// Query is the encoded current view, posted back by favorite toggles.
	Query         string
	AllHref       template.URL
	FavoritesHref template.URL
}

var citizenshipChoices = []Option{
	{Value: string(query.CitizenshipAny), Label: "Any citizenship"},
	{Value: string(query.CitizenshipNonUS), Label: "Open to non-US citizens"},
	{Value: string(query.CitizenshipUSOnly), Label: "US citizens / residents only"},
}

var sortChoices = []Option{
	{Value: string(query.SortRelevance), Label: "Relevance"},
	{Value: string(query.SortName), Label: "Name (A-Z)"},
	{Value: string(query.SortAmount), Label: "Amount (high to low)"},
	{Value: string(query.SortDeadline), Label: "Deadline (soonest)"},
}

func choose(options []Option, value string) []Option {
	out := make([]Option, len(options))
	for i, o := range options {
		o.Selected = o.Value == value
		out[i] = o
	}
	return out
}

// QueryValues encodes a view as the query parameters the page form submits.
func QueryValues(f query.Filter, sort query.SortMode, favoritesView bool) url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("year", f.Year)
	set("degree", f.Degree)
	if f.Citizenship != query.CitizenshipAny {
		set("citizenship", string(f.Citizenship))
	}
	set("q", f.Text)
	if sort != query.SortRelevance {
		set("sort", string(sort))
	}
	if favoritesView {
		v.Set("view", "favorites")
	}
	return v
}

func viewHref(f query.Filter, sort query.SortMode, favoritesView bool) template.URL {
	return template.URL("/?" + QueryValues(f, sort, favoritesView).Encode())
}

// NewPageData assembles the template input for one view.
func NewPageData(f query.Filter, sort query.SortMode, favoritesView bool, sugg catalog.Suggestions, cards []Card, notice string) PageData {
	if f.Citizenship == "" {
		f.Citizenship = query.CitizenshipAny
	}
	if sort == "" {
		sort = query.SortRelevance
	}
	return PageData{
		Filter:             f,
		Sort:               sort,
		FavoritesView:      favoritesView,
		Suggestions:        sugg,
		Cards:              cards,
		Label:              CountLabel(len(cards), favoritesView),
		Notice:             notice,
		CitizenshipOptions: choose(citizenshipChoices, string(f.Citizenship)),
		SortOptions:        choose(sortChoices, string(sort)),
		Query:              QueryValues(f, sort, favoritesView).Encode(),
		AllHref:            viewHref(f, sort, false),
		FavoritesHref:      viewHref(f, sort, true),
	}
}

// Renderer paints the HTML page.
type Renderer struct {
	page *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page.html").
		Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
		ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{page: tmpl}, nil
}

// Page writes the full page for data to w.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if err := r.page.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
