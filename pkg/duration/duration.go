// Package duration estimates effort for a task from its title. The model is
// a fixed ordered list of verb-pattern buckets from quick replies up to
// full-scope projects; the first bucket whose patterns hit wins.
package duration

import (
	"regexp"
	"strings"

	"github.com/hfoster/opq/pkg/queue"
)

type bucket struct {
	minutes  int
	patterns []*regexp.Regexp
}

func res(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + e)
	}
	return out
}

// buckets are evaluated top to bottom; overlapping patterns make the order a
// behavioral contract, so keep shortest-first.
var buckets = []bucket{
	{15, res(`\b(approve|send|reply|respond|check|confirm|remind|forward)\b`, `\bsign off\b`)},
	{30, res(`\b(review|update|schedule|call|edit|post)\b`, `\bfollow[ -]?up\b`)},
	{60, res(`\b(write|prepare|draft|meet|meeting|analyze|fix|debug)\b`)},
	{90, res(`\b(create|plan|research|document|outline|build)\b`)},
	{120, res(`\b(produce|implement|audit|workshop|develop|shoot)\b`)},
	{180, res(`\b(campaign|overhaul|redesign|rebuild|migration)\b`, `\bfull\b`)},
}

var laneDefaults = map[string]int{
	"admin":      15,
	"creative":   45,
	"production": 60,
}

const defaultMinutes = 20

// Estimate returns the estimated effort in minutes for a task title. An
// empty title skips pattern matching entirely and falls straight through to
// the lane default; an unknown or empty lane uses the global default.
func Estimate(title, lane string) int {
	t := strings.TrimSpace(title)
	if t != "" {
		for _, b := range buckets {
			for _, re := range b.patterns {
				if re.MatchString(t) {
					return b.minutes
				}
			}
		}
	}
	if m, ok := laneDefaults[strings.ToLower(strings.TrimSpace(lane))]; ok {
		return m
	}
	return defaultMinutes
}

// EstimateBatch annotates each item with its estimated duration.
func EstimateBatch(items []queue.TaskItem) []queue.TaskItem {
	for i := range items {
		items[i].EstimatedMinutes = Estimate(items[i].Title, items[i].Lane)
	}
	return items
}
