// Package catalog implements the project and citation operations
// behind the HTTP API: project management, citation records shared
// across projects, and bibliography generation.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/citeworks/citeforge/internal/citation"
	"github.com/citeworks/citeforge/internal/config"
	"github.com/citeworks/citeforge/internal/database"
	"github.com/citeworks/citeforge/internal/models"
)

const maxProjectNameLen = 200

// Service coordinates validation, storage, and formatting.
type Service struct {
	store     database.Store
	validator *citation.Validator
	citations config.CitationsConfig
}

// NewService creates a new catalog service.
func NewService(cfg *config.Config, store database.Store) *Service {
	return &Service{
		store:     store,
		validator: &citation.Validator{YearSlack: cfg.Citations.YearSlack},
		citations: cfg.Citations,
	}
}

// CreateProject registers a new, empty project under a unique name.
func (s *Service) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	name, err := cleanProjectName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetProjectByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if existing != nil {
		return nil, conflict(fmt.Sprintf("A project with the name %q already exists", name))
	}

	now := time.Now().UTC()
	p := &models.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Info().Str("project_id", p.ID).Str("name", p.Name).Msg("Project created")
	return p, nil
}

// GetProject retrieves a project by ID.
func (s *Service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if p == nil {
		return nil, notFound("Project not found")
	}
	return p, nil
}

// ListProjects returns all projects, oldest first.
func (s *Service) ListProjects(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// RenameProject changes a project's name, keeping names unique.
func (s *Service) RenameProject(ctx context.Context, id, name string) (*models.Project, error) {
	name, err := cleanProjectName(name)
	if err != nil {
		return nil, err
	}

	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name == name {
		return p, nil
	}

	existing, err := s.store.GetProjectByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, conflict(fmt.Sprintf("A project with the name %q already exists", name))
	}

	p.Name = name
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	log.Info().Str("project_id", p.ID).Str("name", p.Name).Msg("Project renamed")
	return p, nil
}

// DeleteProject removes a project, its citation links, and any
// citations left without a project.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.GetProject(ctx, id); err != nil {
		return err
	}

	citations, err := s.store.ProjectCitations(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list project citations: %w", err)
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	removed := 0
	for _, c := range citations {
		n, err := s.store.LinkCount(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to count citation links: %w", err)
		}
		if n == 0 {
			if err := s.store.DeleteCitation(ctx, c.ID); err != nil {
				return fmt.Errorf("failed to delete orphaned citation: %w", err)
			}
			removed++
		}
	}

	log.Info().Str("project_id", id).Int("citations_removed", removed).Msg("Project deleted")
	return nil
}

func cleanProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("Project name is required")
	}
	if utf8.RuneCountInString(name) > maxProjectNameLen {
		return "", invalid(fmt.Sprintf("Project name exceeds maximum length of %d characters", maxProjectNameLen))
	}
	return name, nil
}
