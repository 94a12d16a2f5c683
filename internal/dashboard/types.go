package dashboard

import "time"

// PanelKind selects how a panel renders its query result.
type PanelKind string

const (
	PanelTable PanelKind = "table"
	PanelBar   PanelKind = "bar"
	PanelLine  PanelKind = "line"
	PanelPie   PanelKind = "pie"
	PanelStat  PanelKind = "stat"
)

// Valid reports whether k is a known panel kind.
func (k PanelKind) Valid() bool {
	switch k {
	case PanelTable, PanelBar, PanelLine, PanelPie, PanelStat:
		return true
	}
	return false
}

// Panel binds one query to one endpoint and a rendering kind.
type Panel struct {
	ID          string    `json:"id"`
	DashboardID string    `json:"dashboard_id"`
	Title       string    `json:"title"`
	Endpoint    string    `json:"endpoint"`
	Query       string    `json:"query"`
	Kind        PanelKind `json:"kind"`

	// Position orders panels within a dashboard, ascending.
	Position int `json:"position"`
}

// Dashboard is a named, ordered collection of panels.
type Dashboard struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Panels      []Panel   `json:"panels"`
}
