package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Collector snapshot shapes. These mirror what the collectors write to disk;
// the builder trusts them and fails loudly on malformed input.

// ChatMessage is one message inside a chat space snapshot.
type ChatMessage struct {
	Name       string `json:"name"`
	Text       string `json:"text"`
	CreateTime string `json:"createTime,omitempty"`
	Sender     string `json:"sender,omitempty"`
}

// ChatSpace is one space keyed by its resource name in the chat snapshot.
type ChatSpace struct {
	Name     string        `json:"name"`
	Messages []ChatMessage `json:"messages"`
}

// EventTime holds either a dateTime or an all-day date, matching the
// Calendar API shape.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Event is one calendar event in the next-24h snapshot.
type Event struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	Organizer string    `json:"organizer,omitempty"`
	Start     EventTime `json:"start"`
	End       EventTime `json:"end"`
}

// Thread is one unread gmail thread.
type Thread struct {
	ID      string   `json:"id"`
	Subject string   `json:"subject"`
	From    string   `json:"from"`
	Date    string   `json:"date,omitempty"`
	Labels  []string `json:"labels,omitempty"`
}

// Snapshots bundles one complete collection run across surfaces.
type Snapshots struct {
	Chat     map[string]ChatSpace `json:"chat"`
	Calendar []Event              `json:"calendar"`
	Gmail    []Thread             `json:"gmail"`
}

const (
	chatSnapshotFile     = "chat.json"
	calendarSnapshotFile = "calendar.json"
	gmailSnapshotFile    = "gmail.json"
)

// LoadSnapshots reads the three surface snapshots from dir. Missing files
// and malformed JSON are contract violations and surface as errors; the
// builder never partially renders a corrupted collection run.
func LoadSnapshots(dir string) (Snapshots, error) {
	var s Snapshots
	if err := readJSON(filepath.Join(dir, chatSnapshotFile), &s.Chat); err != nil {
		return Snapshots{}, err
	}
	if err := readJSON(filepath.Join(dir, calendarSnapshotFile), &s.Calendar); err != nil {
		return Snapshots{}, err
	}
	if err := readJSON(filepath.Join(dir, gmailSnapshotFile), &s.Gmail); err != nil {
		return Snapshots{}, err
	}
	return s, nil
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("missing collector snapshot: %w", err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("malformed collector snapshot %s: %w", path, err)
	}
	return nil
}

// NormalizeChat keeps only messages that mention the operator and returns
// them most-recent-first. Chat is noisy; a message that doesn't name the
// operator directly is not actionable. A mention matches when the message
// text contains any of the given phrases, case-insensitively.
//
// Messages without a createTime sort last. Space iteration is sorted by
// space id so repeated runs over the same snapshot produce identical output.
func NormalizeChat(chat map[string]ChatSpace, mentions []string) []Item {
	lowered := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if m = strings.TrimSpace(m); m != "" {
			lowered = append(lowered, strings.ToLower(m))
		}
	}

	spaceIDs := make([]string, 0, len(chat))
	for id := range chat {
		spaceIDs = append(spaceIDs, id)
	}
	sort.Strings(spaceIDs)

	var items []Item
	for _, id := range spaceIDs {
		space := chat[id]
		for _, msg := range space.Messages {
			if !mentioned(msg.Text, lowered) {
				continue
			}
			items = append(items, Item{
				ID:      msg.Name,
				Surface: SurfaceChat,
				Title:   snippet(msg.Text, 120),
				Who:     msg.Sender,
				When:    msg.CreateTime,
				Ask:     msg.Text,
				Source: map[string]string{
					"space":      id,
					"space_name": space.Name,
				},
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		wi, wj := items[i].When, items[j].When
		if (wi == "") != (wj == "") {
			return wj == "" // timestamped items come before undated ones
		}
		return wi > wj
	})
	return items
}

func mentioned(text string, lowered []string) bool {
	t := strings.ToLower(text)
	for _, m := range lowered {
		if strings.Contains(t, m) {
			return true
		}
	}
	return false
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// NormalizeCalendar maps events to items sorted soonest-first, using the
// start dateTime and falling back to the all-day date. Events without either
// sort first.
func NormalizeCalendar(events []Event) []Item {
	items := make([]Item, 0, len(events))
	for _, e := range events {
		when := e.Start.DateTime
		if when == "" {
			when = e.Start.Date
		}
		items = append(items, Item{
			ID:      e.ID,
			Surface: SurfaceCalendar,
			Title:   e.Summary,
			Who:     e.Organizer,
			When:    when,
			Source:  map[string]string{"event": e.ID},
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].When < items[j].When
	})
	return items
}

// NormalizeGmail maps threads to items in collector order; gmail already
// returns newest-first and the builder does not reorder it.
func NormalizeGmail(threads []Thread) []Item {
	items := make([]Item, 0, len(threads))
	for _, th := range threads {
		src := map[string]string{"thread": th.ID}
		if len(th.Labels) > 0 {
			src["labels"] = strings.Join(th.Labels, ",")
		}
		items = append(items, Item{
			ID:      th.ID,
			Surface: SurfaceGmail,
			Title:   th.Subject,
			Who:     th.From,
			When:    th.Date,
			Source:  src,
		})
	}
	return items
}
