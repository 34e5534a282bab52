package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/citeworks/citeforge/internal/models"
)

func TestMLA_Book(t *testing.T) {
	got := Format(testBook(), models.StyleMLA)
	assert.Equal(t, "Norman, Don, and Jane Doe. <i>The Design of Everyday Things</i>. 2nd ed., Basic Books, 2013.", got)
}

func TestMLA_BookFirstEditionSuppressed(t *testing.T) {
	c := testBook()
	c.Edition = 1
	got := Format(c, models.StyleMLA)
	assert.Equal(t, "Norman, Don, and Jane Doe. <i>The Design of Everyday Things</i>. Basic Books, 2013.", got)
}

func TestMLA_BookUnknownYear(t *testing.T) {
	c := testBook()
	c.Year = models.Year{}
	got := Format(c, models.StyleMLA)
	assert.Equal(t, "Norman, Don, and Jane Doe. <i>The Design of Everyday Things</i>. 2nd ed., Basic Books, n.d.", got)
}

func TestMLA_Article(t *testing.T) {
	got := Format(testArticle(), models.StyleMLA)
	assert.Equal(t, `Shannon, Claude. "A Mathematical Theory of Communication." <i>Bell System Technical Journal</i>, vol. 27, 1948, pp. 379–423.`, got)
}

func TestMLA_ArticleWithIssueAndDOI(t *testing.T) {
	c := testArticle()
	c.Issue = "3"
	c.DOI = "10.1002/j.1538-7305.1948.tb01338.x"
	got := Format(c, models.StyleMLA)
	assert.Equal(t, `Shannon, Claude. "A Mathematical Theory of Communication." <i>Bell System Technical Journal</i>, vol. 27, no. 3, 1948, pp. 379–423. https://doi.org/10.1002/j.1538-7305.1948.tb01338.x`, got)
}

func TestMLA_ArticleThreeAuthorsEtAl(t *testing.T) {
	c := testArticle()
	c.Authors = []string{"Alice Smith", "Bob Jones", "Carol White"}
	got := Format(c, models.StyleMLA)
	assert.Contains(t, got, "Smith, Alice, et al.")
	assert.NotContains(t, got, "Jones")
	assert.NotContains(t, got, "White")
}

func TestMLA_WebsiteKnownYear(t *testing.T) {
	got := Format(testWebsite(), models.StyleMLA)
	assert.Equal(t, `Pike, Rob. "Go Documentation." <i>The Go Project</i>, 2020, https://go.dev/doc`, got)
}

func TestMLA_WebsiteUnknownYearUsesAccessDate(t *testing.T) {
	c := testWebsite()
	c.Year = models.Year{}
	got := Format(c, models.StyleMLA)
	assert.Equal(t, `Pike, Rob. "Go Documentation." <i>The Go Project</i>, https://go.dev/doc. Accessed 2 Oct. 2025.`, got)
}

func TestMLA_Report(t *testing.T) {
	got := Format(testReport(), models.StyleMLA)
	assert.Equal(t, "UNESCO. <i>Global Education Monitoring Report</i>. UNESCO Publishing, 2021. https://unesdoc.unesco.org/report", got)
}

func TestMLA_ReportUnknownYear(t *testing.T) {
	c := testReport()
	c.Year = models.Year{}
	c.URL = ""
	got := Format(c, models.StyleMLA)
	assert.Equal(t, "UNESCO. <i>Global Education Monitoring Report</i>. UNESCO Publishing, n.d.", got)
}

func TestMLAAuthorName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Claude Shannon", "Shannon, Claude"},
		{"John Maynard Keynes", "Keynes, John Maynard"},
		{"UNESCO", "UNESCO"},
		{"J. R. R. Tolkien", "Tolkien, J. R. R."},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mlaAuthorName(tc.in), "input %q", tc.in)
	}
}

func TestMLAAuthors_NoDoublePeriodAfterEtAl(t *testing.T) {
	c := testBook()
	c.Authors = []string{"Alice Smith", "Bob Jones", "Carol White"}
	got := Format(c, models.StyleMLA)
	assert.Contains(t, got, "Smith, Alice, et al. <i>")
	assert.NotContains(t, got, "al..")
}
