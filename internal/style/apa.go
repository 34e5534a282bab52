package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/citeworks/citeforge/internal/models"
)

// apaAuthorName converts "First Middle Last" into "Last, F. M.".
// Single-token names such as institutions pass through unchanged.
func apaAuthorName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	last := parts[len(parts)-1]
	initials := make([]string, 0, len(parts)-1)
	for _, given := range parts[:len(parts)-1] {
		initials = append(initials, strings.ToUpper(string([]rune(given)[0]))+".")
	}
	return last + ", " + strings.Join(initials, " ")
}

// apaAuthors renders the author block: one author inverted, two joined
// with an ampersand, three or more as the first author plus "et al.".
func apaAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return apaAuthorName(authors[0])
	case 2:
		return apaAuthorName(authors[0]) + ", & " + apaAuthorName(authors[1])
	default:
		return apaAuthorName(authors[0]) + ", et al."
	}
}

func apaYear(y models.Year) string {
	if !y.Known {
		return "(" + noDate + ")"
	}
	return fmt.Sprintf("(%d)", y.Value)
}

// apaParts starts every APA citation the same way: author block with
// its trailing initial period stripped, then the parenthesized year.
// The period comes back when the parts are joined with ". ".
func apaParts(c *models.Citation) []string {
	return []string{strings.TrimRight(apaAuthors(c.Authors), "."), apaYear(c.Year)}
}

// apaJoin assembles citation parts with ". " separators and closes
// with a period, unless the citation ends in a bare URL.
func apaJoin(parts []string, endsWithURL bool) string {
	s := strings.Join(parts, ". ")
	if !endsWithURL && !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// apaBook: Authors (Year). <i>Title</i> (2nd ed.). Publisher.
func apaBook(c *models.Citation) string {
	parts := apaParts(c)
	title := italic(sentenceCase(c.Title))
	if ed := ordinalEdition(c.Edition); ed != "" {
		title += " (" + ed + ")"
	}
	parts = append(parts, title, c.Publisher)
	return apaJoin(parts, false)
}

// apaArticle: Authors (Year). Title. <i>Journal</i>, <i>Vol</i>(Issue),
// Pages. https://doi.org/DOI
func apaArticle(c *models.Citation) string {
	parts := apaParts(c)
	parts = append(parts, sentenceCase(c.Title))
	journal := italic(c.Journal) + ", " + italic(strconv.Itoa(c.Volume))
	if c.Issue != "" {
		journal += "(" + c.Issue + ")"
	}
	journal += ", " + pagesEnDash(c.Pages)
	parts = append(parts, journal)
	if c.DOI != "" {
		parts = append(parts, "https://doi.org/"+c.DOI)
		return apaJoin(parts, true)
	}
	return apaJoin(parts, false)
}

// apaWebsite: Authors (Year). Title. <i>Site</i>. URL
func apaWebsite(c *models.Citation) string {
	parts := apaParts(c)
	parts = append(parts, sentenceCase(c.Title), italic(c.Publisher), c.URL)
	return apaJoin(parts, true)
}

// apaReport: Authors (Year). <i>Title</i> [Report]. Publisher. URL
func apaReport(c *models.Citation) string {
	parts := apaParts(c)
	parts = append(parts, italic(sentenceCase(c.Title))+" [Report]", c.Publisher)
	if c.URL != "" {
		parts = append(parts, c.URL)
		return apaJoin(parts, true)
	}
	return apaJoin(parts, false)
}
