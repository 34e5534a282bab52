// Package models defines the core data structures used throughout the application.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind represents the bibliographic category of a citation.
type Kind string

const (
	KindBook    Kind = "book"
	KindArticle Kind = "article"
	KindWebsite Kind = "website"
	KindReport  Kind = "report"
)

// Kinds returns every supported citation kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindBook, KindArticle, KindWebsite, KindReport}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBook, KindArticle, KindWebsite, KindReport:
		return true
	}
	return false
}

// ParseKind normalizes a wire value to a Kind. Matching is
// case-insensitive.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unsupported citation type %q (supported: book, article, website, report)", s)
	}
	return k, nil
}

// Style represents a bibliographic formatting grammar.
type Style string

const (
	StyleAPA Style = "apa"
	StyleMLA Style = "mla"
)

// Styles returns every supported style in a stable order.
func Styles() []Style {
	return []Style{StyleAPA, StyleMLA}
}

// Valid reports whether s is a supported style.
func (s Style) Valid() bool {
	return s == StyleAPA || s == StyleMLA
}

// ParseStyle normalizes a wire value to a Style. Matching is
// case-insensitive.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unsupported format %q (supported: apa, mla)", s)
	}
	return st, nil
}

// Year is a tri-state publication year: a known value or an explicit
// "no date". A year that was never supplied is handled at the input
// layer; a normalized citation always carries one of the two states.
type Year struct {
	Known bool
	Value int
}

// KnownYear returns a Year carrying the given value.
func KnownYear(v int) Year {
	return Year{Known: true, Value: v}
}

// MarshalJSON encodes a known year as its integer value and an explicit
// unknown as null.
func (y Year) MarshalJSON() ([]byte, error) {
	if !y.Known {
		return []byte("null"), nil
	}
	return json.Marshal(y.Value)
}

// UnmarshalJSON decodes an integer or null. Any other JSON value is an
// error.
func (y *Year) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = Year{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("year must be an integer or null")
	}
	*y = Year{Known: true, Value: v}
	return nil
}

// Citation is a normalized bibliographic record. Optional fields hold
// their zero value when unset; validation guarantees present string
// fields are non-empty and present numeric fields are positive, so the
// zero value is unambiguous.
type Citation struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"type"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Year       Year      `json:"year"`
	Publisher  string    `json:"publisher,omitempty"`
	Place      string    `json:"place,omitempty"`
	Edition    int       `json:"edition,omitempty"`
	Journal    string    `json:"journal,omitempty"`
	Volume     int       `json:"volume,omitempty"`
	Issue      string    `json:"issue,omitempty"`
	Pages      string    `json:"pages,omitempty"`
	DOI        string    `json:"doi,omitempty"`
	URL        string    `json:"url,omitempty"`
	AccessDate string    `json:"access_date,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the citation.
func (c *Citation) Clone() *Citation {
	dup := *c
	dup.Authors = append([]string(nil), c.Authors...)
	return &dup
}

// Project groups citations into a single bibliography.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectRequest is the request body for creating or renaming a project.
type ProjectRequest struct {
	Name string `json:"name"`
}

// FormattedCitation is the API response for single-citation formatting.
type FormattedCitation struct {
	CitationID string `json:"citation_id"`
	FormatType Style  `json:"format_type"`
	Formatted  string `json:"formatted_citation"`
}

// Bibliography is the rendered citation list for one project.
type Bibliography struct {
	ProjectID     string   `json:"project_id"`
	FormatType    Style    `json:"format_type"`
	Entries       []string `json:"bibliography"`
	CitationCount int      `json:"citation_count"`
}
