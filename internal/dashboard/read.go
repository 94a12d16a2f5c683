package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates no dashboard exists under the requested name.
var ErrNotFound = errors.New("dashboard not found")

// GetDashboard returns a dashboard by name, panels included, ordered by
// position. Returns ErrNotFound when absent.
func (s *Store) GetDashboard(ctx context.Context, name string) (*Dashboard, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM dashboards
		WHERE name = ?
	`, name)

	d, err := scanDashboard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get dashboard: %w", err)
	}

	panels, err := s.readPanels(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	d.Panels = panels
	return d, nil
}

// ListDashboards returns all dashboards ordered by name, panels included.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListDashboards(ctx context.Context) ([]Dashboard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM dashboards
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	defer rows.Close()

	dashboards := []Dashboard{}
	for rows.Next() {
		d, err := scanDashboard(rows)
		if err != nil {
			return nil, fmt.Errorf("list dashboards: %w", err)
		}
		dashboards = append(dashboards, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}

	for i := range dashboards {
		panels, err := s.readPanels(ctx, dashboards[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list dashboards: %w", err)
		}
		dashboards[i].Panels = panels
	}
	return dashboards, nil
}

// readPanels returns a dashboard's panels ordered by position, then id
// for a deterministic tiebreak.
func (s *Store) readPanels(ctx context.Context, dashboardID string) ([]Panel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dashboard_id, title, endpoint, query, kind, position
		FROM panels
		WHERE dashboard_id = ?
		ORDER BY position ASC, id COLLATE BINARY ASC
	`, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("query panels: %w", err)
	}
	defer rows.Close()

	panels := []Panel{}
	for rows.Next() {
		var p Panel
		var kind string
		if err := rows.Scan(&p.ID, &p.DashboardID, &p.Title, &p.Endpoint, &p.Query, &kind, &p.Position); err != nil {
			return nil, fmt.Errorf("scan panel: %w", err)
		}
		p.Kind = PanelKind(kind)
		panels = append(panels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate panels: %w", err)
	}
	return panels, nil
}

// rowScanner abstracts sql.Row and sql.Rows for scanDashboard.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDashboard(row rowScanner) (*Dashboard, error) {
	var d Dashboard
	var created, updated string
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &created, &updated); err != nil {
		return nil, err
	}

	var err error
	d.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	d.UpdatedAt, err = time.Parse(time.RFC3339, updated)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &d, nil
}
