package queue

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Section headers are part of the document contract; downstream tooling
// splits the queue file on them.
const (
	HeaderTitle    = "# Operator Queue"
	HeaderCalendar = "## Calendar (next 24h)"
	HeaderChat     = "## Chat mentions"
	HeaderGmail    = "## Gmail unread"
	HeaderBuild    = "## Build info"
)

// DefaultGmailDisplayCap bounds how many gmail threads the rendered view
// shows. The underlying list is unbounded; only the display is capped.
const DefaultGmailDisplayCap = 30

// ViewOptions configures one render of the operator queue.
type ViewOptions struct {
	// Mentions are the operator phrases chat messages must contain,
	// usually the display name and a bare username.
	Mentions []string
	// GmailDisplayCap overrides DefaultGmailDisplayCap when positive.
	GmailDisplayCap int
	// GeneratedAt and RunID feed the build-info footer.
	GeneratedAt time.Time
	RunID       string
}

// BuildOperatorView renders the full operator queue document from one
// collection run. Section order is fixed: calendar, chat, gmail, build info.
func BuildOperatorView(s Snapshots, opts ViewOptions) string {
	calendar := NormalizeCalendar(s.Calendar)
	chat := NormalizeChat(s.Chat, opts.Mentions)
	gmail := NormalizeGmail(s.Gmail)

	displayCap := opts.GmailDisplayCap
	if displayCap <= 0 {
		displayCap = DefaultGmailDisplayCap
	}

	var b strings.Builder
	b.WriteString(HeaderTitle + "\n\n")

	b.WriteString(HeaderCalendar + "\n\n")
	if len(calendar) == 0 {
		b.WriteString("Nothing scheduled.\n")
	}
	for _, it := range calendar {
		when := it.When
		if when == "" {
			when = "unscheduled"
		}
		b.WriteString(fmt.Sprintf("- `%s` %s", when, it.Title))
		if it.Who != "" {
			b.WriteString(fmt.Sprintf(" (%s)", it.Who))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(HeaderChat + "\n\n")
	if len(chat) == 0 {
		b.WriteString("No mentions.\n")
	}
	for _, it := range chat {
		b.WriteString("- ")
		if it.When != "" {
			b.WriteString(fmt.Sprintf("`%s` ", it.When))
		}
		if it.Who != "" {
			b.WriteString(it.Who)
		}
		if name := it.Source["space_name"]; name != "" {
			b.WriteString(fmt.Sprintf(" in %s", name))
		}
		b.WriteString(fmt.Sprintf(": %s\n", it.Title))
	}
	b.WriteString("\n")

	b.WriteString(HeaderGmail + "\n\n")
	if len(gmail) == 0 {
		b.WriteString("Inbox clear.\n")
	}
	shown := gmail
	if len(shown) > displayCap {
		shown = shown[:displayCap]
	}
	for _, it := range shown {
		b.WriteString(fmt.Sprintf("- %s", it.Title))
		if it.Who != "" {
			b.WriteString(fmt.Sprintf(" from %s", it.Who))
		}
		if it.When != "" {
			b.WriteString(fmt.Sprintf(" (%s)", it.When))
		}
		b.WriteString("\n")
	}
	if hidden := len(gmail) - len(shown); hidden > 0 {
		b.WriteString(fmt.Sprintf("- ...and %d more unread\n", hidden))
	}
	b.WriteString("\n")

	b.WriteString(HeaderBuild + "\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", opts.GeneratedAt.UTC().Format(time.RFC3339)))
	if opts.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", opts.RunID))
	}
	b.WriteString(fmt.Sprintf("Items: calendar=%d chat=%d gmail=%d\n",
		len(calendar), len(chat), len(gmail)))

	return b.String()
}

// WriteOperatorView renders the queue and writes it to path. Errors from the
// snapshot or the filesystem propagate; the caller decides how to report
// them.
func WriteOperatorView(path string, s Snapshots, opts ViewOptions) error {
	doc := BuildOperatorView(s, opts)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write operator view: %w", err)
	}
	return nil
}
