package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
	"github.com/doable/dashboard/internal/core/querycache"
	"github.com/doable/dashboard/internal/infrastructure/queue"
)

const listenerBuffer = 16

// ErrHubStarted is returned by a second Start call.
var ErrHubStarted = errors.New("realtime hub already started")

// Notification tells a dashboard listener which queries went stale.
type Notification struct {
	Table    domain.Table      `json:"table"`
	Kind     domain.ChangeKind `json:"kind"`
	RecordID string            `json:"record_id"`
	Queries  []string          `json:"queries"`
	At       time.Time         `json:"at"`
}

// Hub holds the process's single change-feed subscription. Every change
// invalidates the query cache first and is then fanned out to listeners, so
// a listener that refetches on notification never reads a stale entry.
type Hub struct {
	feed    ports.ChangeFeed
	cache   *querycache.Cache
	workers int
	log     zerolog.Logger
	onEvent func(ev domain.ChangeEvent, invalidated []string)

	mu        sync.Mutex
	started   bool
	closed    bool
	sub       ports.Subscription[domain.ChangeEvent]
	done      chan struct{}
	listeners map[uint64]chan Notification
	nextID    uint64
}

// HubOption customises a Hub.
type HubOption func(*Hub)

// WithWorkers sets how many dispatcher workers handle change events.
func WithWorkers(n int) HubOption {
	return func(h *Hub) { h.workers = n }
}

// WithEventHook registers fn to run after each change has been applied.
func WithEventHook(fn func(ev domain.ChangeEvent, invalidated []string)) HubOption {
	return func(h *Hub) { h.onEvent = fn }
}

func NewHub(feed ports.ChangeFeed, cache *querycache.Cache, log zerolog.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		feed:      feed,
		cache:     cache,
		log:       log.With().Str("component", "realtime_hub").Logger(),
		listeners: make(map[uint64]chan Notification),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start subscribes to the change feed and processes events until ctx is
// cancelled or Close is called. Events for the same table are applied in
// order.
func (h *Hub) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started {
		return ErrHubStarted
	}
	sub, err := h.feed.SubscribeChanges(ctx)
	if err != nil {
		return err
	}
	h.started = true
	h.sub = sub
	h.done = make(chan struct{})

	dispatcher := queue.NewDispatcher(h.workers, h.handle, h.log)
	dispatcher.Start(ctx)

	go h.loop(ctx, sub, dispatcher)
	return nil
}

func (h *Hub) loop(ctx context.Context, sub ports.Subscription[domain.ChangeEvent], d *queue.Dispatcher[domain.ChangeEvent]) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			if err := d.Enqueue(ctx, string(ev.Table), ev); err != nil {
				return
			}
		}
	}
}

func (h *Hub) handle(_ context.Context, ev domain.ChangeEvent) error {
	stale := h.cache.Invalidate(ev)
	if h.onEvent != nil {
		h.onEvent(ev, stale)
	}
	h.log.Debug().
		Str("table", string(ev.Table)).
		Str("kind", string(ev.Kind)).
		Strs("queries", stale).
		Msg("change applied")

	h.broadcast(Notification{
		Table:    ev.Table,
		Kind:     ev.Kind,
		RecordID: ev.RecordID,
		Queries:  stale,
		At:       ev.At,
	})
	return nil
}

func (h *Hub) broadcast(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.listeners {
		select {
		case ch <- n:
		default:
			h.log.Warn().Uint64("listener", id).Msg("listener too slow, notification dropped")
		}
	}
}

// Listen registers a listener. The returned cancel func closes the channel
// and must be called once the listener is done. The channel is also closed
// by Close; after that Listen returns channels that are already closed.
func (h *Hub) Listen() (<-chan Notification, func()) {
	ch := make(chan Notification, listenerBuffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = ch
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.listeners[id]; ok {
			delete(h.listeners, id)
			close(ch)
		}
	}
}

// Listeners reports how many listeners are registered.
func (h *Hub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// Close ends every listener stream, drops the change-feed subscription and
// waits for the read loop. It is safe to call more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for id, ch := range h.listeners {
		delete(h.listeners, id)
		close(ch)
	}
	sub, done := h.sub, h.done
	h.sub = nil
	h.mu.Unlock()
	if sub == nil {
		return
	}
	sub.Unsubscribe()
	<-done
}
