package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Handler processes one dispatched item.
type Handler[T any] func(ctx context.Context, item T) error

// Dispatcher routes items to a fixed set of workers using consistent hashing
// on a caller-supplied key, guaranteeing per-key ordering.
type Dispatcher[T any] struct {
	workers []chan T
	handle  Handler[T]
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher[T any](numWorkers int, handle Handler[T], log zerolog.Logger) *Dispatcher[T] {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher[T]{
		workers: make([]chan T, numWorkers),
		handle:  handle,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan T, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher[T]) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an item to the worker responsible for key. It blocks once
// that worker's buffer is full, or returns early when ctx is done.
func (d *Dispatcher[T]) Enqueue(ctx context.Context, key string, item T) error {
	select {
	case d.workers[d.shardIndex(key)] <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher[T]) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher[T]) runWorker(ctx context.Context, id int, ch <-chan T) {
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-ch:
			if !ok {
				return
			}
			if err := d.handle(ctx, item); err != nil {
				d.log.Error().Err(err).
					Int("worker_id", id).
					Msg("dispatch handler failed")
			}
		}
	}
}
