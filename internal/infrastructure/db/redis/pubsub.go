package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

const (
	channelPrefix = "doable:changes:"
	authChannel   = "doable:auth"
	subBuffer     = 64
)

// PubSub carries change and auth events over Redis channels, one channel
// per table plus one for auth.
type PubSub struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewPubSub(client *redis.Client, log zerolog.Logger) *PubSub {
	return &PubSub{client: client, log: log.With().Str("component", "redis_pubsub").Logger()}
}

func (p *PubSub) PublishChange(ctx context.Context, ev domain.ChangeEvent) error {
	return p.publish(ctx, changeChannel(ev.Table), ev)
}

func (p *PubSub) SubscribeChanges(ctx context.Context) (ports.Subscription[domain.ChangeEvent], error) {
	sub, err := subscribe[domain.ChangeEvent](ctx, p, changeChannel(domain.TableTasks), changeChannel(domain.TableProjects), changeChannel(domain.TableProfiles))
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (p *PubSub) PublishAuth(ctx context.Context, ev domain.AuthEvent) error {
	return p.publish(ctx, authChannel, ev)
}

func (p *PubSub) SubscribeAuth(ctx context.Context) (ports.Subscription[domain.AuthEvent], error) {
	sub, err := subscribe[domain.AuthEvent](ctx, p, authChannel)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (p *PubSub) publish(ctx context.Context, channel string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", channel, err)
	}
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	return nil
}

func changeChannel(table domain.Table) string {
	return channelPrefix + string(table)
}

type subscription[T any] struct {
	ps   *redis.PubSub
	ch   chan T
	done chan struct{}
	once sync.Once
}

// subscribe confirms the subscription with Redis before returning, so no
// event published afterwards is missed.
func subscribe[T any](ctx context.Context, p *PubSub, channels ...string) (*subscription[T], error) {
	ps := p.client.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %v: %w", channels, err)
	}
	s := &subscription[T]{ps: ps, ch: make(chan T, subBuffer), done: make(chan struct{})}
	go s.pump(p.log)
	return s, nil
}

func (s *subscription[T]) pump(log zerolog.Logger) {
	defer close(s.ch)
	for msg := range s.ps.Channel() {
		var v T
		if err := json.Unmarshal([]byte(msg.Payload), &v); err != nil {
			log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping undecodable event")
			continue
		}
		select {
		case s.ch <- v:
		case <-s.done:
			return
		}
	}
}

func (s *subscription[T]) C() <-chan T { return s.ch }

func (s *subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		close(s.done)
		_ = s.ps.Close()
	})
}
