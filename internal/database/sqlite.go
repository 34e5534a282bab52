// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/citeworks/citeforge/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			year INTEGER,
			publisher TEXT NOT NULL DEFAULT '',
			place TEXT NOT NULL DEFAULT '',
			edition INTEGER NOT NULL DEFAULT 0,
			journal TEXT NOT NULL DEFAULT '',
			volume INTEGER NOT NULL DEFAULT 0,
			issue TEXT NOT NULL DEFAULT '',
			pages TEXT NOT NULL DEFAULT '',
			doi TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			access_date TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS project_citations (
			project_id TEXT NOT NULL,
			citation_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (project_id, citation_id),
			FOREIGN KEY (project_id) REFERENCES projects(id),
			FOREIGN KEY (citation_id) REFERENCES citations(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_project_citations_citation ON project_citations(citation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_kind_title ON citations(kind, title)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateProject stores a new project.
func (s *SQLiteStore) CreateProject(ctx context.Context, p *models.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetProject retrieves a project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// GetProjectByName retrieves a project by its unique name.
func (s *SQLiteStore) GetProjectByName(ctx context.Context, name string) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects WHERE name = ?`, name)
	return scanProject(row)
}

// ListProjects returns all projects, oldest first.
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// UpdateProject updates a project's mutable fields.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p *models.Project) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.UpdatedAt, p.ID)
	return err
}

// DeleteProject removes a project and its citation links.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_citations WHERE project_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

const citationColumns = `id, kind, title, authors, year, publisher, place, edition,
		journal, volume, issue, pages, doi, url, access_date, created_at, updated_at`

// CreateCitation stores a new citation.
func (s *SQLiteStore) CreateCitation(ctx context.Context, c *models.Citation) error {
	authorsJSON, err := json.Marshal(c.Authors)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO citations (`+citationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, string(c.Kind), c.Title, string(authorsJSON), yearValue(c.Year),
		c.Publisher, c.Place, c.Edition, c.Journal, c.Volume, c.Issue,
		c.Pages, c.DOI, c.URL, c.AccessDate, c.CreatedAt, c.UpdatedAt)
	return err
}

// GetCitation retrieves a citation by ID.
func (s *SQLiteStore) GetCitation(ctx context.Context, id string) (*models.Citation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+citationColumns+` FROM citations WHERE id = ?`, id)
	return scanCitation(row)
}

// UpdateCitation rewrites every stored field of a citation.
func (s *SQLiteStore) UpdateCitation(ctx context.Context, c *models.Citation) error {
	authorsJSON, err := json.Marshal(c.Authors)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE citations SET kind = ?, title = ?, authors = ?, year = ?, publisher = ?,
			place = ?, edition = ?, journal = ?, volume = ?, issue = ?, pages = ?,
			doi = ?, url = ?, access_date = ?, updated_at = ?
		WHERE id = ?`,
		string(c.Kind), c.Title, string(authorsJSON), yearValue(c.Year),
		c.Publisher, c.Place, c.Edition, c.Journal, c.Volume, c.Issue,
		c.Pages, c.DOI, c.URL, c.AccessDate, c.UpdatedAt, c.ID)
	return err
}

// DeleteCitation removes a citation row.
func (s *SQLiteStore) DeleteCitation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM citations WHERE id = ?`, id)
	return err
}

// FindIdenticalCitation returns a stored citation whose every field
// matches the candidate exactly, skipping excludeID. Used to share one
// row between projects instead of inserting duplicates.
func (s *SQLiteStore) FindIdenticalCitation(ctx context.Context, c *models.Citation, excludeID string) (*models.Citation, error) {
	authorsJSON, err := json.Marshal(c.Authors)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+citationColumns+` FROM citations
		WHERE kind = ? AND title = ? AND authors = ? AND year IS ? AND publisher = ?
			AND place = ? AND edition = ? AND journal = ? AND volume = ? AND issue = ?
			AND pages = ? AND doi = ? AND url = ? AND access_date = ? AND id != ?
		LIMIT 1`,
		string(c.Kind), c.Title, string(authorsJSON), yearValue(c.Year),
		c.Publisher, c.Place, c.Edition, c.Journal, c.Volume, c.Issue,
		c.Pages, c.DOI, c.URL, c.AccessDate, excludeID)
	return scanCitation(row)
}

// LinkCitation attaches a citation to a project at the next position.
func (s *SQLiteStore) LinkCitation(ctx context.Context, projectID, citationID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_citations (project_id, citation_id, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM project_citations WHERE project_id = ?))`,
		projectID, citationID, projectID)
	return err
}

// UnlinkCitation detaches a citation from a project.
func (s *SQLiteStore) UnlinkCitation(ctx context.Context, projectID, citationID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM project_citations WHERE project_id = ? AND citation_id = ?`,
		projectID, citationID)
	return err
}

// RelinkCitation points an existing link at a different citation row,
// keeping its position within the project.
func (s *SQLiteStore) RelinkCitation(ctx context.Context, projectID, oldCitationID, newCitationID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE project_citations SET citation_id = ? WHERE project_id = ? AND citation_id = ?`,
		newCitationID, projectID, oldCitationID)
	return err
}

// HasLink reports whether a citation is attached to a project.
func (s *SQLiteStore) HasLink(ctx context.Context, projectID, citationID string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM project_citations WHERE project_id = ? AND citation_id = ?`,
		projectID, citationID)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// LinkCount returns how many projects reference a citation.
func (s *SQLiteStore) LinkCount(ctx context.Context, citationID string) (int, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM project_citations WHERE citation_id = ?`, citationID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ProjectCitations returns a project's citations in insertion order.
func (s *SQLiteStore) ProjectCitations(ctx context.Context, projectID string) ([]*models.Citation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.kind, c.title, c.authors, c.year, c.publisher, c.place, c.edition,
			c.journal, c.volume, c.issue, c.pages, c.doi, c.url, c.access_date,
			c.created_at, c.updated_at
		FROM citations c
		JOIN project_citations pc ON pc.citation_id = c.id
		WHERE pc.project_id = ?
		ORDER BY pc.position`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var citations []*models.Citation
	for rows.Next() {
		c, err := scanCitationRow(rows)
		if err != nil {
			return nil, err
		}
		citations = append(citations, c)
	}
	return citations, rows.Err()
}

func yearValue(y models.Year) interface{} {
	if !y.Known {
		return nil
	}
	return y.Value
}

func scanProject(row *sql.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanCitation(row *sql.Row) (*models.Citation, error) {
	c, err := scanCitationFields(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanCitationRow(rows *sql.Rows) (*models.Citation, error) {
	return scanCitationFields(rows.Scan)
}

func scanCitationFields(scan func(dest ...interface{}) error) (*models.Citation, error) {
	var (
		c           models.Citation
		kind        string
		authorsJSON string
		year        sql.NullInt64
	)
	err := scan(&c.ID, &kind, &c.Title, &authorsJSON, &year, &c.Publisher, &c.Place,
		&c.Edition, &c.Journal, &c.Volume, &c.Issue, &c.Pages, &c.DOI, &c.URL,
		&c.AccessDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Kind = models.Kind(kind)
	if err := json.Unmarshal([]byte(authorsJSON), &c.Authors); err != nil {
		return nil, fmt.Errorf("corrupt authors column for citation %s: %w", c.ID, err)
	}
	if year.Valid {
		c.Year = models.KnownYear(int(year.Int64))
	}
	return &c, nil
}
