package queue

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshots() Snapshots {
	return Snapshots{
		Chat: sampleChat(),
		Calendar: []Event{
			{ID: "e2", Summary: "Client call", Start: EventTime{DateTime: "2026-03-05T15:00:00Z"}},
			{ID: "e1", Summary: "Standup", Organizer: "Mara", Start: EventTime{DateTime: "2026-03-05T09:00:00Z"}},
		},
		Gmail: []Thread{
			{ID: "t1", Subject: "Re: invoice", From: "billing@gmg.example"},
			{ID: "t2", Subject: "Contract draft", From: "legal@gmg.example"},
		},
	}
}

func testOpts() ViewOptions {
	return ViewOptions{
		Mentions:    []string{"@Harper Foster", "harper"},
		GeneratedAt: time.Date(2026, 3, 5, 16, 0, 0, 0, time.UTC),
		RunID:       "run-123",
	}
}

func TestBuildOperatorViewSectionOrder(t *testing.T) {
	doc := BuildOperatorView(sampleSnapshots(), testOpts())

	headers := []string{HeaderTitle, HeaderCalendar, HeaderChat, HeaderGmail, HeaderBuild}
	last := -1
	for _, h := range headers {
		idx := strings.Index(doc, h)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", h)
		assert.Greater(t, idx, last, "section %q out of order", h)
		last = idx
	}
}

func TestBuildOperatorViewContent(t *testing.T) {
	doc := BuildOperatorView(sampleSnapshots(), testOpts())

	// Calendar ascending: Standup before Client call.
	assert.Less(t, strings.Index(doc, "Standup"), strings.Index(doc, "Client call"))
	// Chat descending: the 14:15 contract mention before the 09:30 one.
	assert.Less(t, strings.Index(doc, "contract draft is ready"), strings.Index(doc, "check the GMG invoice"))
	// The non-mention chat message never renders.
	assert.NotContains(t, doc, "lunch anyone")

	assert.Contains(t, doc, "Generated: 2026-03-05T16:00:00Z")
	assert.Contains(t, doc, "Run: run-123")
	assert.Contains(t, doc, "Items: calendar=2 chat=3 gmail=2")
}

func TestBuildOperatorViewIsDeterministic(t *testing.T) {
	first := BuildOperatorView(sampleSnapshots(), testOpts())
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, BuildOperatorView(sampleSnapshots(), testOpts()))
	}
}

func TestBuildOperatorViewGmailDisplayCap(t *testing.T) {
	s := sampleSnapshots()
	s.Gmail = nil
	for i := 0; i < 40; i++ {
		s.Gmail = append(s.Gmail, Thread{ID: fmt.Sprintf("t%d", i), Subject: fmt.Sprintf("Thread %d", i)})
	}

	doc := BuildOperatorView(s, testOpts())
	assert.Contains(t, doc, "Thread 29")
	assert.NotContains(t, doc, "Thread 30\n")
	assert.Contains(t, doc, "...and 10 more unread")
	assert.Contains(t, doc, "gmail=40", "the underlying count stays uncapped")

	opts := testOpts()
	opts.GmailDisplayCap = 5
	doc = BuildOperatorView(s, opts)
	assert.Contains(t, doc, "...and 35 more unread")
}

func TestBuildOperatorViewEmptySurfaces(t *testing.T) {
	doc := BuildOperatorView(Snapshots{}, testOpts())
	assert.Contains(t, doc, "Nothing scheduled.")
	assert.Contains(t, doc, "No mentions.")
	assert.Contains(t, doc, "Inbox clear.")
}

func TestWriteOperatorView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.md")
	require.NoError(t, WriteOperatorView(path, sampleSnapshots(), testOpts()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), HeaderTitle))
}
