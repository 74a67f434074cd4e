package util

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate. Collectors emit RFC 3339, but
// task due fields and notes annotations frequently carry bare dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate is the permissive date parser shared by the scoring and
// enrichment paths. It tries a fixed list of layouts and reports failure via
// the second return value instead of an error; callers treat an unparseable
// date as an absent signal.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysBetween returns the whole calendar days from a to b, ignoring the time
// of day of either. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

var metadataLineRe = regexp.MustCompile(`(?m)^\s*([A-Za-z_][A-Za-z0-9_ -]*?)\s*:\s*(.+?)\s*$`)

// ParseMetadata extracts key: value annotations from a free-text notes block.
// Keys are lowercased with internal spaces collapsed to underscores; a later
// occurrence of a key overwrites an earlier one. Lines that don't look like
// annotations are ignored.
func ParseMetadata(notes string) map[string]string {
	if notes == "" {
		return nil
	}
	meta := make(map[string]string)
	for _, m := range metadataLineRe.FindAllStringSubmatch(notes, -1) {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		key = strings.Join(strings.Fields(key), "_")
		meta[key] = m[2]
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
