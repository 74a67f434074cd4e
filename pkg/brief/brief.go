// Package brief runs the enrichment pass over collected tasks and renders
// the scored daily digest. Enrichment is a pure function applied once per
// item: classification, duration estimate, delegation hint, then the
// priority score.
package brief

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hfoster/opq/pkg/delegate"
	"github.com/hfoster/opq/pkg/duration"
	"github.com/hfoster/opq/pkg/priority"
	"github.com/hfoster/opq/pkg/queue"
	"github.com/hfoster/opq/pkg/tracking"
)

// Enrich fills in the derived fields on each task item relative to today.
// Input order is preserved.
func Enrich(items []queue.TaskItem, r *delegate.Advisor, today time.Time) []queue.TaskItem {
	for i := range items {
		it := &items[i]
		it.IsTracking = tracking.IsTracking(it.Title, it.Project)
		it.EstimatedMinutes = duration.Estimate(it.Title, it.Lane)
		it.Priority = priority.Calculate(priority.Signals{
			Due:          it.Due,
			Status:       it.Status,
			WaitingSince: it.WaitingSince,
			ClientTier:   it.ClientTier,
			ClientHealth: it.ClientHealth,
			Stakes:       it.Stakes,
		}, today)
		it.Delegate = r.FormatSuggestion(it.Title, it.Lane, it.Project)
	}
	return items
}

const (
	HeaderTitle     = "# Priority Brief"
	HeaderImmediate = "## Needs attention now"
	HeaderDigest    = "## In the brief"
)

// Build renders the digest from enriched items. Tracking records and items
// below the brief threshold are left out; what remains is split into the
// immediate band (>=70) and the rest, each sorted by score descending with
// input order breaking ties.
func Build(items []queue.TaskItem, generatedAt time.Time) string {
	var kept []queue.TaskItem
	for _, it := range items {
		if it.IsTracking {
			continue
		}
		if !priority.SurfaceInBrief(it.Priority) {
			continue
		}
		kept = append(kept, it)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Priority > kept[j].Priority })

	var b strings.Builder
	b.WriteString(HeaderTitle + "\n\n")

	writeBand := func(header string, match func(int) bool) {
		b.WriteString(header + "\n\n")
		any := false
		for _, it := range kept {
			if !match(it.Priority) {
				continue
			}
			any = true
			b.WriteString(fmt.Sprintf("- [%d %s] %s", it.Priority, priority.Label(it.Priority), it.Title))
			if it.Project != "" {
				b.WriteString(fmt.Sprintf(" (%s)", it.Project))
			}
			b.WriteString(fmt.Sprintf(" ~%dm", it.EstimatedMinutes))
			if it.Delegate != "" {
				b.WriteString(fmt.Sprintf("\n  - %s", it.Delegate))
			}
			b.WriteString("\n")
		}
		if !any {
			b.WriteString("Nothing here.\n")
		}
		b.WriteString("\n")
	}

	writeBand(HeaderImmediate, priority.SurfaceImmediately)
	writeBand(HeaderDigest, func(score int) bool {
		return priority.SurfaceInBrief(score) && !priority.SurfaceImmediately(score)
	})

	b.WriteString(fmt.Sprintf("Generated: %s\n", generatedAt.UTC().Format(time.RFC3339)))
	return b.String()
}

// Write renders the digest to path.
func Write(path string, items []queue.TaskItem, generatedAt time.Time) error {
	doc := Build(items, generatedAt)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write brief: %w", err)
	}
	return nil
}
