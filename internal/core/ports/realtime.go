package ports

import (
	"context"

	"github.com/doable/dashboard/internal/core/domain"
)

// Subscription is a live stream of notifications. Unsubscribe closes C.
type Subscription[T any] interface {
	C() <-chan T
	Unsubscribe()
}

// ChangeFeed broadcasts row changes on the tasks, projects and profiles tables.
type ChangeFeed interface {
	PublishChange(ctx context.Context, event domain.ChangeEvent) error
	SubscribeChanges(ctx context.Context) (Subscription[domain.ChangeEvent], error)
}

// AuthEventBus broadcasts auth-state changes.
type AuthEventBus interface {
	PublishAuth(ctx context.Context, event domain.AuthEvent) error
	SubscribeAuth(ctx context.Context) (Subscription[domain.AuthEvent], error)
}
