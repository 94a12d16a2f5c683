package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/haskins/sparqline/internal/querytext"
)

// InvalidPanelError reports a panel whose query text failed validation.
type InvalidPanelError struct {
	Panel      string // panel title
	Diagnostic string // validation error message
}

func (e *InvalidPanelError) Error() string {
	return fmt.Sprintf("panel %q has an invalid query: %s", e.Panel, e.Diagnostic)
}

// SaveDashboard inserts or updates a dashboard and atomically replaces
// its panel set.
//
// Missing dashboard and panel IDs are minted as UUIDs; the caller's
// struct is updated in place. Every panel query is validated with
// querytext.Validate before anything is written - one invalid panel
// rejects the whole save with *InvalidPanelError.
func (s *Store) SaveDashboard(ctx context.Context, d *Dashboard) error {
	if d.Name == "" {
		return fmt.Errorf("save dashboard: name is required")
	}
	for i := range d.Panels {
		if res := querytext.Validate(d.Panels[i].Query); !res.Valid {
			return &InvalidPanelError{Panel: d.Panels[i].Title, Diagnostic: res.Error}
		}
		if !d.Panels[i].Kind.Valid() {
			return fmt.Errorf("save dashboard: panel %q has unknown kind %q", d.Panels[i].Title, d.Panels[i].Kind)
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	for i := range d.Panels {
		if d.Panels[i].ID == "" {
			d.Panels[i].ID = uuid.NewString()
		}
		d.Panels[i].DashboardID = d.ID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dashboards (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			updated_at = excluded.updated_at
	`,
		d.ID,
		d.Name,
		d.Description,
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}

	// Replace the panel set wholesale; positions are authoritative from
	// the caller's ordering when unset.
	if _, err := tx.ExecContext(ctx, `DELETE FROM panels WHERE dashboard_id = ?`, d.ID); err != nil {
		return fmt.Errorf("save dashboard: clear panels: %w", err)
	}
	for i, p := range d.Panels {
		pos := p.Position
		if pos == 0 {
			pos = i + 1
			d.Panels[i].Position = pos
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO panels (id, dashboard_id, title, endpoint, query, kind, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.ID, d.ID, p.Title, p.Endpoint, p.Query, string(p.Kind), pos)
		if err != nil {
			return fmt.Errorf("save dashboard: panel %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}
	return nil
}

// DeleteDashboard removes a dashboard by name; panels cascade.
// Returns ErrNotFound when no dashboard has that name.
func (s *Store) DeleteDashboard(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dashboards WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RenameDashboard changes a dashboard's name.
// Returns ErrNotFound when no dashboard has the old name.
func (s *Store) RenameDashboard(ctx context.Context, oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("rename dashboard: new name is required")
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE dashboards SET name = ?, updated_at = ? WHERE name = ?
	`, newName, time.Now().UTC().Truncate(time.Second).Format(time.RFC3339), oldName)
	if err != nil {
		return fmt.Errorf("rename dashboard: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename dashboard: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
