// Package style renders normalized citations into bibliographic styles.
//
// Dispatch is a lookup table keyed by (style, kind): adding a style or
// kind means adding render functions and table entries, never touching
// dispatch logic. Render functions are pure and total over citations
// validated for their kind.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/citeworks/citeforge/internal/models"
)

// renderFunc renders one normalized citation of a fixed kind.
type renderFunc func(*models.Citation) string

type styleKind struct {
	style models.Style
	kind  models.Kind
}

var renderers = map[styleKind]renderFunc{
	{models.StyleAPA, models.KindBook}:    apaBook,
	{models.StyleAPA, models.KindArticle}: apaArticle,
	{models.StyleAPA, models.KindWebsite}: apaWebsite,
	{models.StyleAPA, models.KindReport}:  apaReport,
	{models.StyleMLA, models.KindBook}:    mlaBook,
	{models.StyleMLA, models.KindArticle}: mlaArticle,
	{models.StyleMLA, models.KindWebsite}: mlaWebsite,
	{models.StyleMLA, models.KindReport}:  mlaReport,
}

// resolve returns the render function for a (style, kind) pair. Both
// enumerations are validated at the boundary, so a miss is a defect in
// the table above, not bad input.
func resolve(s models.Style, k models.Kind) renderFunc {
	fn, ok := renderers[styleKind{s, k}]
	if !ok {
		panic(fmt.Sprintf("style: no renderer for style %q kind %q", s, k))
	}
	return fn
}

// Format renders one citation in the given style. The output may carry
// inline <i> markup; see the markup package for stripping it.
func Format(c *models.Citation, s models.Style) string {
	return resolve(s, c.Kind)(c)
}

// Bibliography renders every citation in input order. No sorting,
// deduplication, or grouping happens here; ordering policy belongs to
// the caller.
func Bibliography(cs []*models.Citation, s models.Style) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = Format(c, s)
	}
	return out
}

// OrderByAuthor returns a copy of the citation list sorted by the
// style's rendered author block (surname-first in both styles), with
// the title breaking ties. The input slice is left untouched.
func OrderByAuthor(cs []*models.Citation, s models.Style) []*models.Citation {
	out := append([]*models.Citation(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := authorSortKey(out[i], s), authorSortKey(out[j], s)
		if a != b {
			return a < b
		}
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

func authorSortKey(c *models.Citation, s models.Style) string {
	if s == models.StyleMLA {
		return strings.ToLower(mlaAuthors(c.Authors))
	}
	return strings.ToLower(apaAuthors(c.Authors))
}
