// Package google pulls the raw work signals (calendar, gmail, chat, tasks)
// the queue builder consumes. Each collector returns the snapshot shape the
// builder expects; any failure fails the whole surface snapshot.
package google

import (
	"context"
	"fmt"

	"github.com/hfoster/opq/pkg/auth"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/chat/v1"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"
)

// Services bundles the per-API clients behind one authenticated HTTP client.
type Services struct {
	Calendar *calendar.Service
	Gmail    *gmail.Service
	Chat     *chat.Service
	Tasks    *tasks.Service
}

// NewServices authenticates once and constructs the four API services.
func NewServices(ctx context.Context) (*Services, error) {
	client, err := auth.GetClient(ctx, auth.Scopes)
	if err != nil {
		return nil, err
	}

	calSrv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar client: %w", err)
	}
	gmailSrv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}
	chatSrv, err := chat.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Chat client: %w", err)
	}
	tasksSrv, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Tasks client: %w", err)
	}

	return &Services{
		Calendar: calSrv,
		Gmail:    gmailSrv,
		Chat:     chatSrv,
		Tasks:    tasksSrv,
	}, nil
}
