// Package citation validates raw bibliographic field data against
// per-kind schemas and produces normalized citation records.
package citation

import (
	"github.com/citeworks/citeforge/internal/models"
)

// Wire field names accepted in citation payloads.
const (
	FieldType       = "type"
	FieldTitle      = "title"
	FieldAuthors    = "authors"
	FieldYear       = "year"
	FieldPublisher  = "publisher"
	FieldPlace      = "place"
	FieldEdition    = "edition"
	FieldJournal    = "journal"
	FieldVolume     = "volume"
	FieldIssue      = "issue"
	FieldPages      = "pages"
	FieldDOI        = "doi"
	FieldURL        = "url"
	FieldAccessDate = "access_date"
)

// fieldOrder is the canonical reporting order for field names.
var fieldOrder = []string{
	FieldType, FieldTitle, FieldAuthors, FieldYear, FieldPublisher,
	FieldPlace, FieldEdition, FieldJournal, FieldVolume, FieldIssue,
	FieldPages, FieldDOI, FieldURL, FieldAccessDate,
}

// Length caps per field, counted in runes after trimming.
const (
	maxTitleLen     = 500
	maxAuthorLen    = 150
	maxPublisherLen = 200
	maxJournalLen   = 200
	maxPlaceLen     = 100
	maxURLLen       = 2000
	maxDOILen       = 300
	maxPagesLen     = 50
	maxIssueLen     = 50
)

// kindSchema describes which fields a citation kind requires and which
// it additionally allows.
type kindSchema struct {
	required []string
	optional []string
}

var schemas = map[models.Kind]kindSchema{
	models.KindBook: {
		required: []string{FieldTitle, FieldAuthors, FieldYear, FieldPublisher, FieldPlace},
		optional: []string{FieldEdition},
	},
	models.KindArticle: {
		required: []string{FieldTitle, FieldAuthors, FieldYear, FieldJournal, FieldVolume, FieldPages},
		optional: []string{FieldIssue, FieldDOI},
	},
	models.KindWebsite: {
		required: []string{FieldTitle, FieldAuthors, FieldYear, FieldPublisher, FieldURL, FieldAccessDate},
	},
	models.KindReport: {
		required: []string{FieldTitle, FieldAuthors, FieldYear, FieldPublisher, FieldPlace},
		optional: []string{FieldURL},
	},
}

// RequiredFields returns the required field names for a kind, in
// reporting order.
func RequiredFields(kind models.Kind) []string {
	return append([]string(nil), schemas[kind].required...)
}

// ValidFields returns every field name a kind accepts (required plus
// optional), in reporting order.
func ValidFields(kind models.Kind) []string {
	s := schemas[kind]
	out := make([]string, 0, len(s.required)+len(s.optional))
	out = append(out, s.required...)
	return append(out, s.optional...)
}

func validFor(kind models.Kind, field string) bool {
	s := schemas[kind]
	for _, f := range s.required {
		if f == field {
			return true
		}
	}
	for _, f := range s.optional {
		if f == field {
			return true
		}
	}
	return false
}

// fieldPresent reports whether a normalized record carries a value for
// the named field. Year counts as present in both of its states.
func fieldPresent(c *models.Citation, field string) bool {
	switch field {
	case FieldTitle:
		return c.Title != ""
	case FieldAuthors:
		return len(c.Authors) > 0
	case FieldYear:
		return true
	case FieldPublisher:
		return c.Publisher != ""
	case FieldPlace:
		return c.Place != ""
	case FieldEdition:
		return c.Edition > 0
	case FieldJournal:
		return c.Journal != ""
	case FieldVolume:
		return c.Volume > 0
	case FieldIssue:
		return c.Issue != ""
	case FieldPages:
		return c.Pages != ""
	case FieldDOI:
		return c.DOI != ""
	case FieldURL:
		return c.URL != ""
	case FieldAccessDate:
		return c.AccessDate != ""
	}
	return false
}

// clearField resets the named field to its unset state.
func clearField(c *models.Citation, field string) {
	switch field {
	case FieldPublisher:
		c.Publisher = ""
	case FieldPlace:
		c.Place = ""
	case FieldEdition:
		c.Edition = 0
	case FieldJournal:
		c.Journal = ""
	case FieldVolume:
		c.Volume = 0
	case FieldIssue:
		c.Issue = ""
	case FieldPages:
		c.Pages = ""
	case FieldDOI:
		c.DOI = ""
	case FieldURL:
		c.URL = ""
	case FieldAccessDate:
		c.AccessDate = ""
	}
}

// fieldEqual reports whether two records agree on the named field.
func fieldEqual(a, b *models.Citation, field string) bool {
	switch field {
	case FieldType:
		return a.Kind == b.Kind
	case FieldTitle:
		return a.Title == b.Title
	case FieldAuthors:
		if len(a.Authors) != len(b.Authors) {
			return false
		}
		for i := range a.Authors {
			if a.Authors[i] != b.Authors[i] {
				return false
			}
		}
		return true
	case FieldYear:
		return a.Year == b.Year
	case FieldPublisher:
		return a.Publisher == b.Publisher
	case FieldPlace:
		return a.Place == b.Place
	case FieldEdition:
		return a.Edition == b.Edition
	case FieldJournal:
		return a.Journal == b.Journal
	case FieldVolume:
		return a.Volume == b.Volume
	case FieldIssue:
		return a.Issue == b.Issue
	case FieldPages:
		return a.Pages == b.Pages
	case FieldDOI:
		return a.DOI == b.DOI
	case FieldURL:
		return a.URL == b.URL
	case FieldAccessDate:
		return a.AccessDate == b.AccessDate
	}
	return true
}

// ChangedFields lists the wire names of fields whose value differs
// between two records, in reporting order.
func ChangedFields(old, updated *models.Citation) []string {
	var changed []string
	for _, f := range fieldOrder {
		if !fieldEqual(old, updated, f) {
			changed = append(changed, f)
		}
	}
	return changed
}
