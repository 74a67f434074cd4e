package google

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hfoster/opq/pkg/queue"
	"github.com/hfoster/opq/pkg/util"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/tasks/v1"
)

const tasksPerList = 100

// CollectTasks fetches every task list in parallel and flattens the tasks
// into work items. Client metadata (project, lane, tier, health, stakes)
// rides in key: value annotations inside the task notes; the notes
// "status: waiting" annotation overrides the API status, which only knows
// needsAction and completed.
func CollectTasks(ctx context.Context, srv *tasks.Service) ([]queue.TaskItem, error) {
	lists, err := srv.Tasklists.List().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list task lists: %w", err)
	}

	var mu sync.Mutex
	var out []queue.TaskItem

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, tl := range lists.Items {
		tl := tl
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			ts, err := srv.Tasks.List(tl.Id).
				MaxResults(tasksPerList).
				ShowCompleted(true).
				Context(fetchCtx).
				Do()
			if err != nil {
				return fmt.Errorf("unable to fetch tasks for list %s: %w", tl.Id, err)
			}

			items := make([]queue.TaskItem, 0, len(ts.Items))
			for _, t := range ts.Items {
				items = append(items, flattenTask(t, tl.Title))
			}

			mu.Lock()
			out = append(out, items...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The fan-out makes append order nondeterministic; item ids must map
	// to the same positions across runs.
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func flattenTask(t *tasks.Task, listTitle string) queue.TaskItem {
	item := queue.TaskItem{
		ID:     t.Id,
		Title:  t.Title,
		Notes:  t.Notes,
		Status: mapStatus(t.Status),
	}
	if t.Due != "" {
		if due, ok := util.ParseDate(t.Due); ok {
			item.Due = due.Format("2006-01-02")
		}
	}

	meta := util.ParseMetadata(t.Notes)
	if meta["project"] != "" {
		item.Project = meta["project"]
	} else {
		item.Project = listTitle
	}
	item.Lane = meta["lane"]
	item.ClientTier = meta["client_tier"]
	item.ClientHealth = meta["client_health"]
	item.Stakes = meta["stakes"]
	item.WaitingSince = meta["waiting_since"]
	if meta["status"] != "" {
		item.Status = meta["status"]
	}
	return item
}

func mapStatus(apiStatus string) string {
	switch apiStatus {
	case "completed":
		return "completed"
	default:
		return "open"
	}
}
