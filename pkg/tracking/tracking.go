// Package tracking separates zero-effort administrative records (CRM rows,
// invoice entries, candidate logs) from work that actually needs the
// operator's attention.
package tracking

import (
	"regexp"
	"strings"

	"github.com/hfoster/opq/pkg/queue"
)

// trackingProjects are substring-matched against the lowercased project
// name. A hit means every task filed under that project is a record, not
// work.
var trackingProjects = []string{
	"crm",
	"leads",
	"pipeline",
	"invoice",
	"candidate",
	"recruitment",
	"equipment",
	"inventory",
	"templates",
	"workflows",
}

// recordTitleRes identify record-like titles. Checked in order after the
// project allowlist misses.
var recordTitleRes = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{2,}-\d+`),
	regexp.MustCompile(`(?i)invoice\s*#`),
	regexp.MustCompile(`(?i)^candidate:\s`),
	regexp.MustCompile(`(?i)^lead:\s`),
	regexp.MustCompile(`(?i)asset\s*#`),
}

// IsTracking reports whether the given title/project pair describes a
// tracking record rather than real work.
func IsTracking(title, project string) bool {
	p := strings.ToLower(strings.TrimSpace(project))
	if p != "" {
		for _, tp := range trackingProjects {
			if strings.Contains(p, tp) {
				return true
			}
		}
	}
	t := strings.TrimSpace(title)
	for _, re := range recordTitleRes {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// Partition splits items into real work and tracking records, preserving the
// relative order of each group.
func Partition(items []queue.TaskItem) (work, tracking []queue.TaskItem) {
	for _, it := range items {
		if IsTracking(it.Title, it.Project) {
			tracking = append(tracking, it)
		} else {
			work = append(work, it)
		}
	}
	return work, tracking
}
