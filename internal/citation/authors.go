package citation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// nameRE restricts author names to letters (including Latin-1 accented
// forms), spaces, hyphens, apostrophes, and periods.
var nameRE = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-'.]+$`)

// NormalizeAuthors cleans an ordered author list. Entries are trimmed
// and trailing blanks dropped; a blank entry in front of a later
// non-blank one is an error naming its position so the caller fills it
// in instead of the list silently shrinking. Order is preserved: it is
// the byline order, never alphabetized.
func NormalizeAuthors(raw []string) ([]string, error) {
	trimmed := make([]string, len(raw))
	for i, a := range raw {
		trimmed[i] = strings.TrimSpace(a)
	}
	end := len(trimmed)
	for end > 0 && trimmed[end-1] == "" {
		end--
	}
	trimmed = trimmed[:end]
	if len(trimmed) == 0 {
		return nil, errors.New("cannot be empty")
	}
	for i, a := range trimmed {
		if a == "" {
			return nil, fmt.Errorf("entry %d is blank; fill it in or remove it", i+1)
		}
		if utf8.RuneCountInString(a) > maxAuthorLen {
			return nil, fmt.Errorf("entry %d exceeds maximum length of %d characters", i+1, maxAuthorLen)
		}
		if !nameRE.MatchString(a) {
			return nil, errors.New("names may contain only letters, spaces, hyphens, apostrophes, and periods")
		}
	}
	return trimmed, nil
}
