package style

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// noDate marks an explicitly unknown publication year.
const noDate = "n.d."

const trailingPunct = `.,;:!?"()[]{}`

// acronyms are kept uppercase by sentence casing even when they are
// not the first word of a title.
var acronyms = map[string]bool{
	"API": true, "AI": true, "ML": true, "IT": true, "UI": true,
	"UX": true, "CEO": true, "CTO": true, "HTML": true, "CSS": true,
	"JS": true, "SQL": true, "XML": true, "HTTP": true, "HTTPS": true,
	"URL": true, "JSON": true, "PDF": true,
}

// smallWords stay lowercase inside a title-cased phrase. The first and
// last word of each colon-separated part are capitalized regardless.
var smallWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"but": true, "nor": true, "for": true, "so": true, "yet": true,
	"of": true, "in": true, "on": true, "at": true, "by": true,
	"to": true, "up": true, "as": true, "is": true, "if": true,
	"be": true, "with": true, "from": true, "into": true, "over": true,
	"upon": true, "onto": true, "than": true, "like": true, "via": true,
	"per": true, "vs": true, "vs.": true, "v.": true, "v": true,
}

var monthAbbrev = [...]string{
	"", "Jan.", "Feb.", "Mar.", "Apr.", "May", "Jun.",
	"Jul.", "Aug.", "Sep.", "Oct.", "Nov.", "Dec.",
}

func italic(s string) string {
	return "<i>" + s + "</i>"
}

// capitalizeWord uppercases the first rune and lowercases the rest.
func capitalizeWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError && size <= 1 {
		return w
	}
	return strings.ToUpper(string(r)) + strings.ToLower(w[size:])
}

// splitTrailingPunct separates trailing punctuation from a word so the
// casing rules see the bare word.
func splitTrailingPunct(w string) (word, punct string) {
	i := len(w)
	for i > 0 && strings.ContainsRune(trailingPunct, rune(w[i-1])) {
		i--
	}
	return w[:i], w[i:]
}

// isShortAcronym reports whether a word reads as an acronym: two to
// five runes, all uppercase.
func isShortAcronym(w string) bool {
	n := utf8.RuneCountInString(w)
	if n < 2 || n > 5 {
		return false
	}
	return w == strings.ToUpper(w) && w != strings.ToLower(w)
}

// sentenceCase lowers a title to sentence case: the first word of the
// title and of each colon-separated subtitle keeps its capital,
// acronyms stay uppercase, everything else is lowercased.
func sentenceCase(title string) string {
	parts := strings.Split(title, ":")
	for pi, part := range parts {
		words := strings.Fields(strings.TrimSpace(part))
		for i, w := range words {
			clean, punct := splitTrailingPunct(w)
			switch {
			case clean == "":
			case acronyms[strings.ToUpper(clean)]:
				words[i] = strings.ToUpper(clean) + punct
			case isShortAcronym(clean):
			case i == 0:
				words[i] = capitalizeWord(clean) + punct
			default:
				words[i] = strings.ToLower(clean) + punct
			}
		}
		parts[pi] = strings.Join(words, " ")
	}
	return strings.Join(parts, ": ")
}

// titleCase raises a title to title case: every word capitalized
// except small words, with the first and last word of each
// colon-separated part always capitalized.
func titleCase(title string) string {
	parts := strings.Split(title, ":")
	for pi, part := range parts {
		words := strings.Fields(strings.TrimSpace(part))
		for i, w := range words {
			clean := strings.ToLower(strings.Trim(w, trailingPunct))
			if i == 0 || i == len(words)-1 || !smallWords[clean] {
				words[i] = capitalizeWord(w)
			} else {
				words[i] = strings.ToLower(w)
			}
		}
		parts[pi] = strings.Join(words, " ")
	}
	return strings.Join(parts, ": ")
}

// ordinalEdition renders an edition number as "2nd ed.". First
// editions are never shown, so 1 and below render empty.
func ordinalEdition(n int) string {
	if n <= 1 {
		return ""
	}
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s ed.", n, suffix)
}

// pagesEnDash swaps the hyphens of a validated page range for en
// dashes, as both styles print ranges.
func pagesEnDash(pages string) string {
	return strings.ReplaceAll(pages, "-", "–")
}

// accessedOn renders an access date as "Accessed 2 Oct. 2025". The
// day carries no leading zero.
func accessedOn(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "Accessed " + date
	}
	return fmt.Sprintf("Accessed %d %s %d", t.Day(), monthAbbrev[t.Month()], t.Year())
}

// withPeriod appends a closing period unless the part already ends in
// one, which happens when an author block ends in an initial or in
// "et al.".
func withPeriod(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
