// Package priority converts the heterogeneous signals attached to a work
// item (due date, client metadata, stakes wording, waiting age) into a single
// urgency score in [0, 100], plus the threshold policies that decide how the
// item reaches the operator.
package priority

import (
	"strings"
	"time"

	"github.com/hfoster/opq/pkg/util"
)

const (
	StatusOpen      = "open"
	StatusWaiting   = "waiting"
	StatusCompleted = "completed"
)

// Signals carries the scoring inputs for one work item. Every field is
// optional; an absent or unparseable value contributes zero to the score.
type Signals struct {
	Due          string
	Status       string
	WaitingSince string
	ClientTier   string
	ClientHealth string
	Stakes       string
}

var tierPoints = map[string]int{
	"a": 25,
	"b": 15,
	"c": 5,
}

var healthPoints = map[string]int{
	"critical":  15,
	"poor":      10,
	"fair":      5,
	"good":      2,
	"excellent": 0,
}

// highStakes wins over mediumStakes; the two checks are exclusive.
var highStakes = []string{
	"contract", "deadline", "launch", "critical", "urgent", "escalate",
	"legal", "compliance", "penalty", "expiring", "renewal", "termination",
}

var mediumStakes = []string{
	"important", "key", "major", "significant", "priority", "flagship",
	"strategic",
}

// Calculate returns the urgency score for the given signals, relative to
// today. It is pure and never fails: malformed dates and unknown enum values
// degrade to a zero contribution from the affected component.
func Calculate(s Signals, today time.Time) int {
	score := duePressure(s.Due, s.Status, today)
	score += tierPoints[strings.ToLower(strings.TrimSpace(s.ClientTier))]
	score += healthPoints[strings.ToLower(strings.TrimSpace(s.ClientHealth))]
	score += stakesPoints(s.Stakes)
	score += waitingPoints(s.WaitingSince, s.Status, today)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// duePressure is the 0-40 due-date component. Completed and waiting items
// never accrue pressure; only open items with a parseable due date do.
func duePressure(due, status string, today time.Time) int {
	if status != StatusOpen {
		return 0
	}
	dueDate, ok := util.ParseDate(due)
	if !ok {
		return 0
	}
	d := util.DaysBetween(today, dueDate)
	switch {
	case d < 0:
		p := 20 + 2*(-d)
		if p > 40 {
			return 40
		}
		return p
	case d == 0:
		return 20
	case d == 1:
		return 17
	case d <= 3:
		return 15
	case d <= 7:
		return 10
	case d <= 14:
		return 5
	default:
		return 0
	}
}

func stakesPoints(stakes string) int {
	s := strings.ToLower(stakes)
	if s == "" {
		return 0
	}
	for _, kw := range highStakes {
		if strings.Contains(s, kw) {
			return 10
		}
	}
	for _, kw := range mediumStakes {
		if strings.Contains(s, kw) {
			return 5
		}
	}
	return 0
}

// waitingPoints credits one point per day an item has sat in waiting status,
// capped at 10. Future waiting_since dates floor at 0.
func waitingPoints(since, status string, today time.Time) int {
	if status != StatusWaiting {
		return 0
	}
	start, ok := util.ParseDate(since)
	if !ok {
		return 0
	}
	d := util.DaysBetween(start, today)
	if d < 0 {
		return 0
	}
	if d > 10 {
		return 10
	}
	return d
}

// SurfaceImmediately reports whether an item should interrupt the operator.
func SurfaceImmediately(score int) bool {
	return score >= 70
}

// SurfaceInBrief reports whether an item belongs in the daily brief.
func SurfaceInBrief(score int) bool {
	return score >= 40
}

// Label maps a score to its display band.
func Label(score int) string {
	switch {
	case score >= 70:
		return "Critical"
	case score >= 50:
		return "High"
	case score >= 30:
		return "Medium"
	default:
		return "Low"
	}
}
