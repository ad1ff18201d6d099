// Package realtime carries change and auth events inside one process and
// fans change notifications out to dashboard listeners.
package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

const subscriberBuffer = 64

// Broker is the in-process ChangeFeed and AuthEventBus used when no Redis is
// configured. Events reach subscribers of this process only.
type Broker struct {
	changes *fanout[domain.ChangeEvent]
	auth    *fanout[domain.AuthEvent]
}

func NewBroker(log zerolog.Logger) *Broker {
	log = log.With().Str("component", "local_broker").Logger()
	return &Broker{
		changes: newFanout[domain.ChangeEvent]("changes", log),
		auth:    newFanout[domain.AuthEvent]("auth", log),
	}
}

func (b *Broker) PublishChange(ctx context.Context, ev domain.ChangeEvent) error {
	return b.changes.publish(ctx, ev)
}

func (b *Broker) SubscribeChanges(ctx context.Context) (ports.Subscription[domain.ChangeEvent], error) {
	sub, err := b.changes.subscribe(ctx)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (b *Broker) PublishAuth(ctx context.Context, ev domain.AuthEvent) error {
	return b.auth.publish(ctx, ev)
}

func (b *Broker) SubscribeAuth(ctx context.Context) (ports.Subscription[domain.AuthEvent], error) {
	sub, err := b.auth.subscribe(ctx)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

type fanout[T any] struct {
	name string
	log  zerolog.Logger

	mu   sync.RWMutex
	subs map[*localSub[T]]struct{}
}

func newFanout[T any](name string, log zerolog.Logger) *fanout[T] {
	return &fanout[T]{name: name, log: log, subs: make(map[*localSub[T]]struct{})}
}

// publish never blocks on a slow subscriber; a full buffer drops the event
// for that subscriber only.
func (f *fanout[T]) publish(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for s := range f.subs {
		select {
		case s.ch <- v:
		default:
			f.log.Warn().Str("stream", f.name).Msg("subscriber buffer full, event dropped")
		}
	}
	return nil
}

func (f *fanout[T]) subscribe(ctx context.Context) (*localSub[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &localSub[T]{parent: f, ch: make(chan T, subscriberBuffer)}
	f.mu.Lock()
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	return s, nil
}

func (f *fanout[T]) remove(s *localSub[T]) {
	f.mu.Lock()
	delete(f.subs, s)
	close(s.ch)
	f.mu.Unlock()
}

type localSub[T any] struct {
	parent *fanout[T]
	ch     chan T
	once   sync.Once
}

func (s *localSub[T]) C() <-chan T { return s.ch }

func (s *localSub[T]) Unsubscribe() {
	s.once.Do(func() { s.parent.remove(s) })
}
