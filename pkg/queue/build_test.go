package queue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChat() map[string]ChatSpace {
	return map[string]ChatSpace{
		"spaces/AAA": {
			Name: "Studio General",
			Messages: []ChatMessage{
				{Name: "spaces/AAA/messages/1", Text: "lunch anyone?", CreateTime: "2026-03-05T11:00:00Z", Sender: "Jonas Reyes"},
				{Name: "spaces/AAA/messages/2", Text: "@Harper Foster can you check the GMG invoice?", CreateTime: "2026-03-05T09:30:00Z", Sender: "Mara Lindqvist"},
				{Name: "spaces/AAA/messages/3", Text: "ping harper when you get a sec", Sender: "Priya Nair"},
			},
		},
		"spaces/BBB": {
			Name: "GMG Client Room",
			Messages: []ChatMessage{
				{Name: "spaces/BBB/messages/9", Text: "@Harper Foster contract draft is ready", CreateTime: "2026-03-05T14:15:00Z", Sender: "Client"},
			},
		},
	}
}

func TestNormalizeChatFiltersAndSorts(t *testing.T) {
	items := NormalizeChat(sampleChat(), []string{"@Harper Foster", "harper"})

	require.Len(t, items, 3, "only mentions survive the filter")
	// Descending by createTime; the undated mention sorts last.
	assert.Equal(t, "spaces/BBB/messages/9", items[0].ID)
	assert.Equal(t, "spaces/AAA/messages/2", items[1].ID)
	assert.Equal(t, "spaces/AAA/messages/3", items[2].ID)
	assert.Equal(t, "", items[2].When)

	assert.Equal(t, SurfaceChat, items[0].Surface)
	assert.Equal(t, "GMG Client Room", items[0].Source["space_name"])
	assert.Equal(t, "Client", items[0].Who)
}

func TestNormalizeChatMatchIsCaseInsensitive(t *testing.T) {
	chat := map[string]ChatSpace{
		"spaces/AAA": {Name: "X", Messages: []ChatMessage{
			{Name: "m1", Text: "HARPER please advise", CreateTime: "2026-03-05T10:00:00Z"},
		}},
	}
	items := NormalizeChat(chat, []string{"harper"})
	require.Len(t, items, 1)
}

func TestNormalizeChatNoMentionPhrases(t *testing.T) {
	items := NormalizeChat(sampleChat(), nil)
	assert.Empty(t, items, "without mention phrases nothing is actionable")
}

func TestNormalizeCalendarSortsAscending(t *testing.T) {
	events := []Event{
		{ID: "e2", Summary: "Client call", Start: EventTime{DateTime: "2026-03-05T15:00:00Z"}},
		{ID: "e3", Summary: "Office move", Start: EventTime{}}, // no start at all
		{ID: "e1", Summary: "Standup", Organizer: "Mara", Start: EventTime{DateTime: "2026-03-05T09:00:00Z"}},
		{ID: "e4", Summary: "Deadline day", Start: EventTime{Date: "2026-03-05"}},
	}
	items := NormalizeCalendar(events)

	ids := []string{items[0].ID, items[1].ID, items[2].ID, items[3].ID}
	// Missing When sorts first, then the all-day date, then timed events.
	assert.Equal(t, []string{"e3", "e4", "e1", "e2"}, ids)
	assert.Equal(t, "2026-03-05", items[1].When, "all-day events fall back to the date")
	assert.Equal(t, "Mara", items[2].Who)
}

func TestNormalizeGmailPreservesOrder(t *testing.T) {
	threads := []Thread{
		{ID: "t1", Subject: "Re: invoice", From: "billing@gmg.example", Date: "2026-03-05T08:00:00Z"},
		{ID: "t2", Subject: "Newsletter", From: "news@example", Labels: []string{"INBOX", "UNREAD"}},
		{ID: "t3", Subject: "Contract draft", From: "legal@gmg.example"},
	}
	items := NormalizeGmail(threads)

	require.Len(t, items, 3)
	assert.Equal(t, "t1", items[0].ID)
	assert.Equal(t, "t2", items[1].ID)
	assert.Equal(t, "t3", items[2].ID)
	assert.Equal(t, "INBOX,UNREAD", items[1].Source["labels"])
}

func TestLoadSnapshots(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"chat.json":     `{"spaces/AAA": {"name": "X", "messages": []}}`,
		"calendar.json": `[{"id": "e1", "summary": "Standup", "start": {"dateTime": "2026-03-05T09:00:00Z"}}]`,
		"gmail.json":    `[{"id": "t1", "subject": "Hello", "from": "a@b"}]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	s, err := LoadSnapshots(dir)
	require.NoError(t, err)
	assert.Len(t, s.Calendar, 1)
	assert.Len(t, s.Gmail, 1)
	assert.Contains(t, s.Chat, "spaces/AAA")
}

func TestLoadSnapshotsIsStrict(t *testing.T) {
	dir := t.TempDir()
	// Missing files are a contract violation, not a soft default.
	_, err := LoadSnapshots(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat.json"), []byte(`{not json`), 0o600))
	_, err = LoadSnapshots(dir)
	assert.Error(t, err)
}
