package models

import (
	"strings"
	"time"
)

// Logical field keys. Dataset headers are mapped onto these by the catalog schema.
const (
	FieldName          = "name"
	FieldAbout         = "about"
	FieldAmount        = "amount"
	FieldAwards        = "awards"
	FieldOpenDate      = "open_date"
	FieldCloseDate     = "close_date"
	FieldCitizenship   = "citizenship"
	FieldGrade         = "grade"
	FieldAudience      = "audience"
	FieldLevel         = "level"
	FieldGPA           = "gpa"
	FieldHeritage      = "heritage"
	FieldGeography     = "geography"
	FieldFinancialNeed = "financial_need"
	FieldMajor         = "major"
	FieldSchool        = "school"
	FieldRequirements  = "requirements"
	FieldWebsite       = "website"
)

// Record is one normalized scholarship entry. It is not modified after the
// normalizer creates it.
type Record struct {
	ID     string            `json:"id"`
	Index  int               `json:"index"` // row position in the source payload
	Values map[string]string `json:"values"`
}

// Get returns the trimmed value of a field, or "" when the field is absent.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r.Values[field])
}

// Has reports whether the field carries a non-blank value.
func (r Record) Has(field string) bool {
	return r.Get(field) != ""
}

// Name is the display name, "" when missing.
func (r Record) Name() string {
	return r.Get(FieldName)
}

// RecordID derives the favorites key: the lower-cased name followed by the raw
// closing-date string. Two rows with the same name and closing date share an ID.
func RecordID(name, rawCloseDate string) string {
	return strings.ToLower(strings.TrimSpace(name)) + rawCloseDate
}

// Favorite is a persisted user bookmark of a Record.
type Favorite struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
}
