package style

import (
	"strconv"
	"strings"

	"github.com/citeworks/citeforge/internal/models"
)

// mlaAuthorName inverts a name: "First Middle Last" becomes
// "Last, First Middle". Single-token names pass through unchanged.
func mlaAuthorName(name string) string {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name
	}
	last := parts[len(parts)-1]
	return last + ", " + strings.Join(parts[:len(parts)-1], " ")
}

// mlaAuthors renders the author block: the first author inverted, a
// second kept in byline order, three or more as the first author plus
// "et al.".
func mlaAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return mlaAuthorName(authors[0])
	case 2:
		return mlaAuthorName(authors[0]) + ", and " + authors[1]
	default:
		return mlaAuthorName(authors[0]) + ", et al."
	}
}

func mlaYear(y models.Year) string {
	if !y.Known {
		return noDate
	}
	return strconv.Itoa(y.Value)
}

// mlaBook: Authors. <i>Title</i>. 2nd ed., Publisher, Year.
func mlaBook(c *models.Citation) string {
	parts := []string{
		withPeriod(mlaAuthors(c.Authors)),
		italic(titleCase(c.Title)) + ".",
	}
	if ed := ordinalEdition(c.Edition); ed != "" {
		parts = append(parts, ed+",")
	}
	parts = append(parts, c.Publisher+",", withPeriod(mlaYear(c.Year)))
	return strings.Join(parts, " ")
}

// mlaArticle: Authors. "Title." <i>Journal</i>, vol. V, no. I, Year,
// pp. Pages. https://doi.org/DOI
func mlaArticle(c *models.Citation) string {
	journal := []string{italic(titleCase(c.Journal)), "vol. " + strconv.Itoa(c.Volume)}
	if c.Issue != "" {
		journal = append(journal, "no. "+c.Issue)
	}
	journal = append(journal, mlaYear(c.Year), "pp. "+pagesEnDash(c.Pages))

	parts := []string{
		withPeriod(mlaAuthors(c.Authors)),
		`"` + titleCase(c.Title) + `."`,
		strings.Join(journal, ", ") + ".",
	}
	if c.DOI != "" {
		parts = append(parts, "https://doi.org/"+c.DOI)
	}
	return strings.Join(parts, " ")
}

// mlaWebsite with a known year: Authors. "Title." <i>Site</i>, Year, URL
// With the year unknown the URL closes the sentence and the access
// date takes over: Authors. "Title." <i>Site</i>, URL. Accessed 2 Oct. 2025.
func mlaWebsite(c *models.Citation) string {
	parts := []string{
		withPeriod(mlaAuthors(c.Authors)),
		`"` + titleCase(c.Title) + `."`,
		italic(titleCase(c.Publisher)) + ",",
	}
	if c.Year.Known {
		parts = append(parts, strconv.Itoa(c.Year.Value)+",", c.URL)
	} else {
		parts = append(parts, c.URL+".", withPeriod(accessedOn(c.AccessDate)))
	}
	return strings.Join(parts, " ")
}

// mlaReport: Authors. <i>Title</i>. Publisher, Year. URL
func mlaReport(c *models.Citation) string {
	parts := []string{
		withPeriod(mlaAuthors(c.Authors)),
		italic(titleCase(c.Title)) + ".",
		withPeriod(c.Publisher + ", " + mlaYear(c.Year)),
	}
	if c.URL != "" {
		parts = append(parts, c.URL)
	}
	return strings.Join(parts, " ")
}
