package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/citeworks/citeforge/internal/citation"
	"github.com/citeworks/citeforge/internal/models"
)

// AddCitation validates raw field data and attaches the resulting
// record to a project. A record identical to one already stored is
// shared rather than inserted twice.
func (s *Service) AddCitation(ctx context.Context, projectID string, in citation.Input) (*models.Citation, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	normalized, err := s.validator.Validate(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ProjectCitations(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project citations: %w", err)
	}
	if dup := projectDuplicate(existing, normalized, ""); dup != nil {
		return nil, conflict("An identical citation already exists in this project")
	}

	identical, err := s.store.FindIdenticalCitation(ctx, normalized, "")
	if err != nil {
		return nil, fmt.Errorf("failed to look up identical citation: %w", err)
	}
	if identical != nil {
		if err := s.store.LinkCitation(ctx, projectID, identical.ID); err != nil {
			return nil, fmt.Errorf("failed to link citation: %w", err)
		}
		log.Info().Str("project_id", projectID).Str("citation_id", identical.ID).Msg("Citation linked from shared record")
		return identical, nil
	}

	now := time.Now().UTC()
	normalized.ID = uuid.New().String()
	normalized.CreatedAt = now
	normalized.UpdatedAt = now
	if err := s.store.CreateCitation(ctx, normalized); err != nil {
		return nil, fmt.Errorf("failed to create citation: %w", err)
	}
	if err := s.store.LinkCitation(ctx, projectID, normalized.ID); err != nil {
		return nil, fmt.Errorf("failed to link citation: %w", err)
	}

	log.Info().
		Str("project_id", projectID).
		Str("citation_id", normalized.ID).
		Str("type", string(normalized.Kind)).
		Msg("Citation created")
	return normalized, nil
}

// GetCitation retrieves a citation by ID.
func (s *Service) GetCitation(ctx context.Context, id string) (*models.Citation, error) {
	c, err := s.store.GetCitation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get citation: %w", err)
	}
	if c == nil {
		return nil, notFound("Citation not found")
	}
	return c, nil
}

// ProjectCitations returns a project's citations in insertion order.
func (s *Service) ProjectCitations(ctx context.Context, projectID string) ([]*models.Citation, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	citations, err := s.store.ProjectCitations(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project citations: %w", err)
	}
	return citations, nil
}

// UpdateCitation applies a partial update to a citation within a
// project. The patch is merged over the stored record and the merged
// result validated as a whole. A record shared with other projects is
// copied before it changes, so the edit stays local to this project;
// if the merged result matches another stored record exactly, the
// project is pointed at that record instead.
func (s *Service) UpdateCitation(ctx context.Context, projectID, citationID string, patch citation.Input) (*models.Citation, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	current, err := s.GetCitation(ctx, citationID)
	if err != nil {
		return nil, err
	}
	linked, err := s.store.HasLink(ctx, projectID, citationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check citation link: %w", err)
	}
	if !linked {
		return nil, notFound("Citation not found in this project")
	}

	merged, err := s.validator.ValidateUpdate(current, patch)
	if err != nil {
		return nil, err
	}

	// Nothing changed: leave the stored record untouched.
	if len(citation.ChangedFields(current, merged)) == 0 {
		return current, nil
	}

	others, err := s.store.ProjectCitations(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project citations: %w", err)
	}
	if dup := projectDuplicate(others, merged, citationID); dup != nil {
		return nil, conflict("An identical citation already exists in this project")
	}

	identical, err := s.store.FindIdenticalCitation(ctx, merged, citationID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identical citation: %w", err)
	}
	if identical != nil {
		if err := s.store.RelinkCitation(ctx, projectID, citationID, identical.ID); err != nil {
			return nil, fmt.Errorf("failed to relink citation: %w", err)
		}
		if err := s.deleteIfOrphaned(ctx, citationID); err != nil {
			return nil, err
		}
		log.Info().Str("project_id", projectID).Str("citation_id", identical.ID).Msg("Citation update absorbed by shared record")
		return identical, nil
	}

	links, err := s.store.LinkCount(ctx, citationID)
	if err != nil {
		return nil, fmt.Errorf("failed to count citation links: %w", err)
	}
	if links == 1 {
		merged.ID = current.ID
		merged.CreatedAt = current.CreatedAt
		merged.UpdatedAt = time.Now().UTC()
		if err := s.store.UpdateCitation(ctx, merged); err != nil {
			return nil, fmt.Errorf("failed to update citation: %w", err)
		}
		log.Info().Str("project_id", projectID).Str("citation_id", merged.ID).Msg("Citation updated")
		return merged, nil
	}

	// Shared record: copy on write so other projects keep the old data.
	now := time.Now().UTC()
	merged.ID = uuid.New().String()
	merged.CreatedAt = now
	merged.UpdatedAt = now
	if err := s.store.CreateCitation(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to create citation: %w", err)
	}
	if err := s.store.RelinkCitation(ctx, projectID, citationID, merged.ID); err != nil {
		return nil, fmt.Errorf("failed to relink citation: %w", err)
	}

	log.Info().
		Str("project_id", projectID).
		Str("citation_id", merged.ID).
		Str("copied_from", citationID).
		Msg("Citation updated via copy")
	return merged, nil
}

// RemoveCitation detaches a citation from a project and deletes the
// record once no project references it.
func (s *Service) RemoveCitation(ctx context.Context, projectID, citationID string) error {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}
	if _, err := s.GetCitation(ctx, citationID); err != nil {
		return err
	}
	linked, err := s.store.HasLink(ctx, projectID, citationID)
	if err != nil {
		return fmt.Errorf("failed to check citation link: %w", err)
	}
	if !linked {
		return notFound("Citation not found in this project")
	}

	if err := s.store.UnlinkCitation(ctx, projectID, citationID); err != nil {
		return fmt.Errorf("failed to unlink citation: %w", err)
	}
	if err := s.deleteIfOrphaned(ctx, citationID); err != nil {
		return err
	}

	log.Info().Str("project_id", projectID).Str("citation_id", citationID).Msg("Citation removed")
	return nil
}

func (s *Service) deleteIfOrphaned(ctx context.Context, citationID string) error {
	n, err := s.store.LinkCount(ctx, citationID)
	if err != nil {
		return fmt.Errorf("failed to count citation links: %w", err)
	}
	if n == 0 {
		if err := s.store.DeleteCitation(ctx, citationID); err != nil {
			return fmt.Errorf("failed to delete orphaned citation: %w", err)
		}
	}
	return nil
}

// projectDuplicate looks for a citation in the project that reads as
// the same work: kind, title, authors, and year match
// case-insensitively, along with the kind's distinguishing fields.
// Optional fields narrow the match only when the candidate carries
// them. excludeID skips the record being updated.
func projectDuplicate(existing []*models.Citation, candidate *models.Citation, excludeID string) *models.Citation {
	for _, c := range existing {
		if c.ID == excludeID || c.Kind != candidate.Kind {
			continue
		}
		if !strings.EqualFold(c.Title, candidate.Title) ||
			!equalFoldList(c.Authors, candidate.Authors) ||
			c.Year != candidate.Year {
			continue
		}
		if sameWork(c, candidate) {
			return c
		}
	}
	return nil
}

func sameWork(c, candidate *models.Citation) bool {
	switch candidate.Kind {
	case models.KindBook:
		if !strings.EqualFold(c.Publisher, candidate.Publisher) || !strings.EqualFold(c.Place, candidate.Place) {
			return false
		}
		if candidate.Edition > 0 && c.Edition != candidate.Edition {
			return false
		}
	case models.KindArticle:
		if !strings.EqualFold(c.Journal, candidate.Journal) || c.Volume != candidate.Volume ||
			!strings.EqualFold(c.Pages, candidate.Pages) {
			return false
		}
		if candidate.Issue != "" && !strings.EqualFold(c.Issue, candidate.Issue) {
			return false
		}
		if candidate.DOI != "" && !strings.EqualFold(c.DOI, candidate.DOI) {
			return false
		}
	case models.KindWebsite:
		if !strings.EqualFold(c.Publisher, candidate.Publisher) || !strings.EqualFold(c.URL, candidate.URL) {
			return false
		}
		if candidate.AccessDate != "" && c.AccessDate != candidate.AccessDate {
			return false
		}
	case models.KindReport:
		if !strings.EqualFold(c.Publisher, candidate.Publisher) || !strings.EqualFold(c.Place, candidate.Place) {
			return false
		}
		if candidate.URL != "" && !strings.EqualFold(c.URL, candidate.URL) {
			return false
		}
	}
	return true
}

func equalFoldList(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
