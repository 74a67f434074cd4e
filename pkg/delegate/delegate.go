// Package delegate suggests which team member a task could be handed to,
// scoring roster members on lane specialty and project familiarity. Tasks
// touching owner-only concerns (signatures, budget sign-off, hiring,
// contracts) are never suggested for delegation.
package delegate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hfoster/opq/pkg/roster"
)

// ownerOnlyKeywords gate delegation entirely. The gate is
// default-permissive: anything not touching these stays delegable.
var ownerOnlyKeywords = []string{
	"authorize",
	"sign",
	"approve",
	"strategic",
	"confidential",
	"personal",
	"budget approval",
	"hiring decision",
	"contract",
}

const (
	lanePoints     = 2.0
	projectPoints  = 3.0
	familiarPoints = 1.5
	maxSuggestions = 3
)

var capacityModifier = map[string]float64{
	"high":   1.2,
	"medium": 1.0,
	"low":    0.5,
}

// Suggestion is one ranked delegation candidate.
type Suggestion struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Advisor scores tasks against a fixed roster.
type Advisor struct {
	members []roster.Member
}

// New returns an advisor over the given roster. The roster's member order is
// kept; it decides ties between equal scores.
func New(r *roster.Roster) *Advisor {
	return &Advisor{members: r.Members}
}

// CanDelegate reports whether a task may leave the operator's desk.
func CanDelegate(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range ownerOnlyKeywords {
		if strings.Contains(t, kw) {
			return false
		}
	}
	return true
}

// Suggest returns up to three candidates in descending score order. It
// returns nil for owner-only tasks and for tasks no member scores on.
func (a *Advisor) Suggest(title, lane, project string) []Suggestion {
	if !CanDelegate(title) {
		return nil
	}

	titleLower := strings.ToLower(title)
	laneLower := strings.ToLower(strings.TrimSpace(lane))
	projectLower := strings.ToLower(strings.TrimSpace(project))

	var out []Suggestion
	for _, m := range a.members {
		score := 0.0
		var reasons []string

		if laneLower != "" {
			for _, l := range m.Lanes {
				if strings.ToLower(l) == laneLower {
					score += lanePoints
					reasons = append(reasons, fmt.Sprintf("%s specialist", strings.ToLower(l)))
					break
				}
			}
		}

		matchedProject := ""
		if projectLower != "" {
			for _, p := range m.Projects {
				pl := strings.ToLower(p)
				if strings.Contains(pl, projectLower) || strings.Contains(projectLower, pl) {
					score += projectPoints
					reasons = append(reasons, fmt.Sprintf("works on %s", p))
					matchedProject = p
					break
				}
			}
		}

		for _, p := range m.Projects {
			if p == matchedProject {
				continue
			}
			if strings.Contains(titleLower, strings.ToLower(p)) {
				score += familiarPoints
				reasons = append(reasons, fmt.Sprintf("familiar with %s", p))
			}
		}

		mod, ok := capacityModifier[strings.ToLower(m.Capacity)]
		if !ok {
			mod = 1.0
		}
		score *= mod

		if score > 0 {
			out = append(out, Suggestion{
				Name:   m.Name,
				Email:  m.Email,
				Score:  score,
				Reason: strings.Join(reasons, ", "),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// FormatSuggestion returns a single human-readable line: an owner-only
// warning, the top candidate, or the empty string when nobody fits.
func (a *Advisor) FormatSuggestion(title, lane, project string) string {
	if !CanDelegate(title) {
		return "Owner-only task, do not delegate"
	}
	suggestions := a.Suggest(title, lane, project)
	if len(suggestions) == 0 {
		return ""
	}
	top := suggestions[0]
	return fmt.Sprintf("Delegate to %s (%s)", top.Name, top.Reason)
}
