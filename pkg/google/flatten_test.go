package google

import (
	"testing"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/tasks/v1"
)

func TestFlattenTask(t *testing.T) {
	task := &tasks.Task{
		Id:     "task-1",
		Title:  "Follow up with GMG re: invoice",
		Status: "needsAction",
		Due:    "2026-03-06T00:00:00.000Z",
		Notes:  "project: GMG\nlane: finance\nclient tier: A\nclient health: poor\nstakes: contract renewal\n",
	}
	item := flattenTask(task, "Client Work")

	if item.Status != "open" {
		t.Errorf("Status = %q, want open", item.Status)
	}
	if item.Due != "2026-03-06" {
		t.Errorf("Due = %q, want 2026-03-06", item.Due)
	}
	if item.Project != "GMG" || item.Lane != "finance" {
		t.Errorf("project/lane = %q/%q", item.Project, item.Lane)
	}
	if item.ClientTier != "A" || item.ClientHealth != "poor" {
		t.Errorf("tier/health = %q/%q", item.ClientTier, item.ClientHealth)
	}
	if item.Stakes != "contract renewal" {
		t.Errorf("Stakes = %q", item.Stakes)
	}
}

func TestFlattenTaskDefaults(t *testing.T) {
	item := flattenTask(&tasks.Task{Id: "t", Title: "Plain task", Status: "completed"}, "Inbox")
	if item.Status != "completed" {
		t.Errorf("Status = %q, want completed", item.Status)
	}
	if item.Project != "Inbox" {
		t.Errorf("Project = %q, want list title fallback", item.Project)
	}

	// A notes status annotation overrides the two-state API status.
	waiting := flattenTask(&tasks.Task{
		Id: "t2", Title: "Waiting on client", Status: "needsAction",
		Notes: "status: waiting\nwaiting_since: 2026-03-01",
	}, "Inbox")
	if waiting.Status != "waiting" || waiting.WaitingSince != "2026-03-01" {
		t.Errorf("status/since = %q/%q", waiting.Status, waiting.WaitingSince)
	}
}

func TestFlattenThread(t *testing.T) {
	th := &gmail.Thread{
		Id: "thread-1",
		Messages: []*gmail.Message{
			{
				LabelIds: []string{"INBOX", "UNREAD"},
				Payload: &gmail.MessagePart{
					Headers: []*gmail.MessagePartHeader{
						{Name: "Subject", Value: "Re: invoice"},
						{Name: "From", Value: "billing@gmg.example"},
						{Name: "Date", Value: "Thu, 05 Mar 2026 08:00:00 +0000"},
					},
				},
			},
		},
	}
	got := flattenThread(th)
	if got.Subject != "Re: invoice" || got.From != "billing@gmg.example" {
		t.Errorf("subject/from = %q/%q", got.Subject, got.From)
	}
	if len(got.Labels) != 2 {
		t.Errorf("labels = %v", got.Labels)
	}

	empty := flattenThread(&gmail.Thread{Id: "x"})
	if empty.ID != "x" || empty.Subject != "" {
		t.Errorf("empty thread flatten = %+v", empty)
	}
}
