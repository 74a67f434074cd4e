package google

import (
	"fmt"
	"time"

	"github.com/hfoster/opq/pkg/queue"
	"google.golang.org/api/calendar/v3"
)

// CollectCalendar fetches the next 24 hours of events from the primary
// calendar, flattened into the snapshot shape.
func CollectCalendar(srv *calendar.Service, now time.Time) ([]queue.Event, error) {
	events, err := srv.Events.List("primary").
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(24 * time.Hour).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list calendar events: %w", err)
	}

	out := make([]queue.Event, 0, len(events.Items))
	for _, e := range events.Items {
		item := queue.Event{
			ID:      e.Id,
			Summary: e.Summary,
		}
		if e.Organizer != nil {
			item.Organizer = e.Organizer.DisplayName
			if item.Organizer == "" {
				item.Organizer = e.Organizer.Email
			}
		}
		if e.Start != nil {
			item.Start = queue.EventTime{DateTime: e.Start.DateTime, Date: e.Start.Date}
		}
		if e.End != nil {
			item.End = queue.EventTime{DateTime: e.End.DateTime, Date: e.End.Date}
		}
		out = append(out, item)
	}
	return out, nil
}
