package google

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hfoster/opq/pkg/queue"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/chat/v1"
)

const (
	// maxConcurrentFetches bounds the fan-out when pulling per-space
	// messages and per-thread metadata.
	maxConcurrentFetches = 10

	// fetchTimeout boxes each individual remote fetch.
	fetchTimeout = 30 * time.Second

	chatMessagesPerSpace = 50
)

// CollectChat fetches recent messages from every space the operator is in.
// Spaces are pulled in parallel with a bounded fan-out; any space failing
// fails the whole snapshot, so the builder never sees a partial chat view.
func CollectChat(ctx context.Context, srv *chat.Service) (map[string]queue.ChatSpace, error) {
	spaces, err := srv.Spaces.List().Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list chat spaces: %w", err)
	}

	out := make(map[string]queue.ChatSpace, len(spaces.Spaces))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for _, sp := range spaces.Spaces {
		sp := sp
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			msgs, err := srv.Spaces.Messages.List(sp.Name).
				PageSize(chatMessagesPerSpace).
				OrderBy("createTime desc").
				Context(fetchCtx).
				Do()
			if err != nil {
				return fmt.Errorf("unable to fetch messages for space %s: %w", sp.Name, err)
			}

			space := queue.ChatSpace{
				Name:     sp.DisplayName,
				Messages: make([]queue.ChatMessage, 0, len(msgs.Messages)),
			}
			for _, m := range msgs.Messages {
				msg := queue.ChatMessage{
					Name:       m.Name,
					Text:       m.Text,
					CreateTime: m.CreateTime,
				}
				if m.Sender != nil {
					msg.Sender = m.Sender.DisplayName
					if msg.Sender == "" {
						msg.Sender = m.Sender.Name
					}
				}
				space.Messages = append(space.Messages, msg)
			}

			mu.Lock()
			out[sp.Name] = space
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
