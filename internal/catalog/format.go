package catalog

import (
	"context"
	"fmt"

	"github.com/citeworks/citeforge/internal/config"
	"github.com/citeworks/citeforge/internal/models"
	"github.com/citeworks/citeforge/internal/style"
)

// FormatCitation renders a single citation in the requested style, or
// the configured default when styleName is empty. Output carries
// inline markup; callers strip it for plain text.
func (s *Service) FormatCitation(ctx context.Context, citationID, styleName string) (*models.FormattedCitation, error) {
	c, err := s.GetCitation(ctx, citationID)
	if err != nil {
		return nil, err
	}
	st, err := s.resolveStyle(styleName)
	if err != nil {
		return nil, err
	}
	return &models.FormattedCitation{
		CitationID: c.ID,
		FormatType: st,
		Formatted:  style.Format(c, st),
	}, nil
}

// Bibliography renders every citation in a project. Entries follow the
// configured ordering policy: link order, or alphabetical by author.
func (s *Service) Bibliography(ctx context.Context, projectID, styleName string) (*models.Bibliography, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	st, err := s.resolveStyle(styleName)
	if err != nil {
		return nil, err
	}

	citations, err := s.store.ProjectCitations(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project citations: %w", err)
	}
	if s.citations.BibliographyOrder == config.OrderAuthor {
		citations = style.OrderByAuthor(citations, st)
	}

	return &models.Bibliography{
		ProjectID:     projectID,
		FormatType:    st,
		Entries:       style.Bibliography(citations, st),
		CitationCount: len(citations),
	}, nil
}

func (s *Service) resolveStyle(name string) (models.Style, error) {
	if name == "" {
		return s.citations.Style(), nil
	}
	st, err := models.ParseStyle(name)
	if err != nil {
		return "", invalid(err.Error())
	}
	return st, nil
}
