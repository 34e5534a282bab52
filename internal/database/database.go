// Package database provides the data access layer for projects and citations.
package database

import (
	"context"

	"github.com/citeworks/citeforge/internal/models"
)

// Store defines the interface for data persistence. Lookups return
// (nil, nil) when no row matches.
type Store interface {
	// Projects
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetProjectByName(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Citations
	CreateCitation(ctx context.Context, c *models.Citation) error
	GetCitation(ctx context.Context, id string) (*models.Citation, error)
	UpdateCitation(ctx context.Context, c *models.Citation) error
	DeleteCitation(ctx context.Context, id string) error
	FindIdenticalCitation(ctx context.Context, c *models.Citation, excludeID string) (*models.Citation, error)

	// Project-citation links
	LinkCitation(ctx context.Context, projectID, citationID string) error
	UnlinkCitation(ctx context.Context, projectID, citationID string) error
	RelinkCitation(ctx context.Context, projectID, oldCitationID, newCitationID string) error
	HasLink(ctx context.Context, projectID, citationID string) (bool, error)
	LinkCount(ctx context.Context, citationID string) (int, error)
	ProjectCitations(ctx context.Context, projectID string) ([]*models.Citation, error)

	// Lifecycle
	Close() error
	Migrate() error
}
