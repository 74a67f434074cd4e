// Package queue normalizes raw collector snapshots into a uniform item
// representation and renders the operator queue document.
package queue

// Surface identifies the channel a work item came from.
type Surface string

const (
	SurfaceChat     Surface = "chat"
	SurfaceGmail    Surface = "gmail"
	SurfaceCalendar Surface = "calendar"
	SurfaceTasks    Surface = "tasks"
)

// Item is one actionable unit from any surface, normalized for rendering.
// When is an ISO-8601 timestamp or empty. Source carries surface-specific
// metadata (thread ids, event links) that the builder never interprets.
type Item struct {
	ID      string            `json:"id"`
	Surface Surface           `json:"surface"`
	Title   string            `json:"title"`
	Who     string            `json:"who,omitempty"`
	When    string            `json:"when,omitempty"`
	Ask     string            `json:"ask,omitempty"`
	Source  map[string]string `json:"source,omitempty"`
}

// TaskItem is a work item from the tasks surface together with the derived
// fields the enrichment pass fills in. The raw fields come straight from the
// collector; the derived ones are computed once per collection run.
type TaskItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Project      string `json:"project,omitempty"`
	Lane         string `json:"lane,omitempty"`
	Status       string `json:"status,omitempty"`
	Due          string `json:"due,omitempty"`
	WaitingSince string `json:"waiting_since,omitempty"`
	ClientTier   string `json:"client_tier,omitempty"`
	ClientHealth string `json:"client_health,omitempty"`
	Stakes       string `json:"stakes,omitempty"`
	Notes        string `json:"notes,omitempty"`

	// Derived by enrichment.
	EstimatedMinutes int    `json:"estimated_duration_min,omitempty"`
	IsTracking       bool   `json:"is_tracking,omitempty"`
	Priority         int    `json:"priority,omitempty"`
	Delegate         string `json:"delegate_suggestion,omitempty"`
}
