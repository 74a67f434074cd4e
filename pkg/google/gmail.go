package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/hfoster/opq/pkg/queue"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
)

const gmailListMax = 100

// CollectGmail fetches unread inbox threads. Thread metadata is pulled in a
// bounded fan-out; one failed thread fails the whole snapshot rather than
// producing a silently incomplete inbox.
func CollectGmail(ctx context.Context, srv *gmail.Service) ([]queue.Thread, error) {
	list, err := srv.Users.Threads.List("me").
		Q("is:unread in:inbox").
		MaxResults(gmailListMax).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list unread threads: %w", err)
	}

	out := make([]queue.Thread, len(list.Threads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, th := range list.Threads {
		i, id := i, th.Id
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			full, err := srv.Users.Threads.Get("me", id).
				Format("metadata").
				MetadataHeaders("Subject", "From", "Date").
				Context(fetchCtx).
				Do()
			if err != nil {
				return fmt.Errorf("unable to fetch thread %s: %w", id, err)
			}
			out[i] = flattenThread(full)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenThread(th *gmail.Thread) queue.Thread {
	t := queue.Thread{ID: th.Id}
	if len(th.Messages) == 0 {
		return t
	}
	first := th.Messages[0]
	t.Labels = first.LabelIds
	if first.Payload != nil {
		for _, h := range first.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "subject":
				t.Subject = h.Value
			case "from":
				t.From = h.Value
			case "date":
				t.Date = h.Value
			}
		}
	}
	return t
}
