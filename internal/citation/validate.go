package citation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/citeworks/citeforge/internal/models"
)

var (
	placeRE = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-'.,]+$`)
	pagesRE = regexp.MustCompile(`^\d+-\d+(?:\s*,\s*\d+-\d+)*$`)
	doiRE   = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)
	dateRE  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	urlRE   = regexp.MustCompile(`(?i)^https?://(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|localhost|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})(?::\d+)?(?:/?|[/?]\S+)$`)
)

// Input is a raw citation payload keyed by wire field name. Decoding a
// request body into it keeps the distinction between an absent key and
// an explicit JSON null, which matters for year.
type Input map[string]json.RawMessage

// Has reports whether the payload carries the named key, null included.
func (in Input) Has(field string) bool {
	_, ok := in[field]
	return ok
}

func isNullRaw(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// Validator checks citation payloads against the per-kind schemas. The
// zero value caps known years at the current year.
type Validator struct {
	// YearSlack is how many years past the current one a known
	// publication year may reach.
	YearSlack int
	// Now supplies the clock; nil means time.Now.
	Now func() time.Time
}

func (v *Validator) maxYear() int {
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	return now().Year() + v.YearSlack
}

// Validate checks a create payload and builds the normalized record.
// It returns either a complete, schema-consistent citation or a
// *ValidationError carrying every problem found in one pass.
func (v *Validator) Validate(in Input) (*models.Citation, error) {
	kind, kerr := resolveKind(in, "")
	if kerr != nil {
		return nil, kerr
	}

	verr := &ValidationError{Kind: kind}
	collectInvalid(verr, kind, in)
	for _, f := range schemas[kind].required {
		if !in.Has(f) {
			verr.Missing = append(verr.Missing, f)
		}
	}

	c := &models.Citation{Kind: kind}
	v.applyFields(verr, kind, in, c)
	if !verr.ok() {
		return nil, verr
	}
	return c, nil
}

// ValidateUpdate merges a prior record with a patch, re-validates the
// merged result, and clears every field outside the target kind's
// schema. When the patch changes the kind, required fields the merged
// record still lacks are reported as the kind-change group.
func (v *Validator) ValidateUpdate(prior *models.Citation, patch Input) (*models.Citation, error) {
	kind, kerr := resolveKind(patch, prior.Kind)
	if kerr != nil {
		return nil, kerr
	}
	kindChanged := kind != prior.Kind

	verr := &ValidationError{Kind: kind}
	if kindChanged {
		verr.From = prior.Kind
	}
	collectInvalid(verr, kind, patch)

	for _, f := range schemas[kind].required {
		if patch.Has(f) || fieldPresent(prior, f) {
			continue
		}
		if kindChanged {
			verr.KindChange = append(verr.KindChange, f)
		} else {
			verr.Missing = append(verr.Missing, f)
		}
	}

	merged := prior.Clone()
	merged.Kind = kind
	v.applyFields(verr, kind, patch, merged)
	if !verr.ok() {
		return nil, verr
	}

	for _, f := range fieldOrder {
		if f == FieldType || validFor(kind, f) {
			continue
		}
		clearField(merged, f)
	}
	return merged, nil
}

// resolveKind pulls the target kind from the payload, falling back to
// the prior record's kind on updates that leave it untouched.
func resolveKind(in Input, fallback models.Kind) (models.Kind, *ValidationError) {
	raw, ok := in[FieldType]
	if !ok {
		if fallback != "" {
			return fallback, nil
		}
		verr := &ValidationError{}
		verr.addField(FieldType, "is required")
		return "", verr
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		verr := &ValidationError{Kind: fallback}
		verr.addField(FieldType, "must be a string")
		return "", verr
	}
	kind, err := models.ParseKind(s)
	if err != nil {
		verr := &ValidationError{Kind: fallback}
		verr.addField(FieldType, "must be one of: book, article, website, report")
		return "", verr
	}
	return kind, nil
}

func collectInvalid(verr *ValidationError, kind models.Kind, in Input) {
	var invalid []string
	for f := range in {
		if f == FieldType || validFor(kind, f) {
			continue
		}
		invalid = append(invalid, f)
	}
	sort.Strings(invalid)
	verr.Invalid = invalid
}

// applyFields decodes and validates every supplied field the kind
// accepts, writing good values onto c and problems onto verr.
func (v *Validator) applyFields(verr *ValidationError, kind models.Kind, in Input, c *models.Citation) {
	for _, f := range ValidFields(kind) {
		raw, ok := in[f]
		if !ok {
			continue
		}
		v.applyField(verr, c, f, raw)
	}
}

func (v *Validator) applyField(verr *ValidationError, c *models.Citation, field string, raw json.RawMessage) {
	switch field {
	case FieldTitle:
		if s, ok := decodeTrimmedString(verr, field, raw, maxTitleLen); ok {
			c.Title = s
		}
	case FieldAuthors:
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil || isNullRaw(raw) {
			verr.addField(field, "must be a list of strings")
			return
		}
		authors, err := NormalizeAuthors(list)
		if err != nil {
			verr.addField(field, err.Error())
			return
		}
		c.Authors = authors
	case FieldYear:
		if isNullRaw(raw) {
			c.Year = models.Year{}
			return
		}
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			verr.addField(field, "must be an integer or null")
			return
		}
		if max := v.maxYear(); n < 0 || n > max {
			verr.addField(field, fmt.Sprintf("must be between 0 and %d", max))
			return
		}
		c.Year = models.KnownYear(n)
	case FieldPublisher:
		if s, ok := decodeTrimmedString(verr, field, raw, maxPublisherLen); ok {
			c.Publisher = s
		}
	case FieldPlace:
		s, ok := decodeTrimmedString(verr, field, raw, maxPlaceLen)
		if !ok {
			return
		}
		if !placeRE.MatchString(s) {
			verr.addField(field, "may contain only letters, spaces, hyphens, apostrophes, periods, and commas")
			return
		}
		c.Place = s
	case FieldEdition:
		if n, ok := decodePositiveInt(verr, field, raw); ok {
			c.Edition = n
		}
	case FieldJournal:
		if s, ok := decodeTrimmedString(verr, field, raw, maxJournalLen); ok {
			c.Journal = s
		}
	case FieldVolume:
		if n, ok := decodePositiveInt(verr, field, raw); ok {
			c.Volume = n
		}
	case FieldIssue:
		if s, ok := decodeTrimmedString(verr, field, raw, maxIssueLen); ok {
			c.Issue = s
		}
	case FieldPages:
		s, ok := decodeGrammarString(verr, field, raw, maxPagesLen)
		if !ok {
			return
		}
		if !validPages(s) {
			verr.addField(field, `must be page ranges like "123-145" or "1-3, 5-7"`)
			return
		}
		c.Pages = s
	case FieldDOI:
		s, ok := decodeGrammarString(verr, field, raw, maxDOILen)
		if !ok {
			return
		}
		if !doiRE.MatchString(s) {
			verr.addField(field, "must match the DOI format 10.xxxx/xxxx")
			return
		}
		c.DOI = s
	case FieldURL:
		s, ok := decodeGrammarString(verr, field, raw, maxURLLen)
		if !ok {
			return
		}
		if !urlRE.MatchString(s) {
			verr.addField(field, "must be a valid http or https URL")
			return
		}
		c.URL = s
	case FieldAccessDate:
		s, ok := decodeGrammarString(verr, field, raw, 0)
		if !ok {
			return
		}
		if !dateRE.MatchString(s) {
			verr.addField(field, "must be a valid date in YYYY-MM-DD format")
			return
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			verr.addField(field, "must be a valid date in YYYY-MM-DD format")
			return
		}
		c.AccessDate = s
	}
}

// decodeTrimmedString handles the free-text fields: a present value
// must be a string that is non-empty after trimming and within the cap.
func decodeTrimmedString(verr *ValidationError, field string, raw json.RawMessage, maxLen int) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		verr.addField(field, "must be a non-empty string")
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		verr.addField(field, "must be a non-empty string")
		return "", false
	}
	if utf8.RuneCountInString(s) > maxLen {
		verr.addField(field, fmt.Sprintf("exceeds maximum length of %d characters", maxLen))
		return "", false
	}
	return s, true
}

// decodeGrammarString handles fields with their own grammar: the type
// and length checks run here, the grammar check at the call site. A
// maxLen of zero skips the length check.
func decodeGrammarString(verr *ValidationError, field string, raw json.RawMessage, maxLen int) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		verr.addField(field, "must be a string")
		return "", false
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		verr.addField(field, fmt.Sprintf("exceeds maximum length of %d characters", maxLen))
		return "", false
	}
	return s, true
}

func decodePositiveInt(verr *ValidationError, field string, raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil || n <= 0 {
		verr.addField(field, "must be a positive integer")
		return 0, false
	}
	return n, true
}

// validPages checks the range grammar and that every range runs
// forward.
func validPages(s string) bool {
	if !pagesRE.MatchString(s) {
		return false
	}
	for _, r := range strings.Split(s, ",") {
		bounds := strings.SplitN(strings.TrimSpace(r), "-", 2)
		start, err1 := strconv.Atoi(bounds[0])
		end, err2 := strconv.Atoi(bounds[1])
		if err1 != nil || err2 != nil || start > end {
			return false
		}
	}
	return true
}
