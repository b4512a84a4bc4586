package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/api/metrics"
	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Subscriber observes lifecycle events. It runs on a dispatcher worker and
// must not assume it sees every event.
type Subscriber func(ctx context.Context, event domain.LifecycleEvent)

// OnceMarker lets replicas agree on which one delivers an event.
type OnceMarker interface {
	MarkOnce(ctx context.Context, eventID string) (bool, error)
}

// Dispatcher fans lifecycle events out to subscribers on a fixed set of
// workers. Events for the same user land on the same worker, so they are seen
// in publish order. Publish never blocks: a full worker buffer drops the event.
type Dispatcher struct {
	workers     []chan domain.LifecycleEvent
	subscribers []Subscriber
	once        OnceMarker
	log         zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. once may be nil.
func NewDispatcher(numWorkers int, once OnceMarker, log zerolog.Logger, subscribers ...Subscriber) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, once, log, subscribers...)
}

func newDispatcher(numWorkers, buffer int, once OnceMarker, log zerolog.Logger, subscribers ...Subscriber) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:     make([]chan domain.LifecycleEvent, numWorkers),
		subscribers: subscribers,
		once:        once,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LifecycleEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// events still buffered at that point are lost.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish hands the event to the worker responsible for its user.
func (d *Dispatcher) Publish(event domain.LifecycleEvent) {
	typ := string(event.Type)
	idx := d.shardIndex(event)

	select {
	case d.workers[idx] <- event:
		metrics.LifecycleEventsPublishedTotal.WithLabelValues(typ).Inc()
		metrics.LifecycleQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.LifecycleEventsDroppedTotal.WithLabelValues(typ).Inc()
		d.log.Warn().Str("event_id", event.ID).Str("type", typ).Int("worker_id", idx).Msg("lifecycle event dropped, worker buffer full")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(event domain.LifecycleEvent) int {
	key := event.ID
	if event.User != nil {
		key = event.User.ID
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.LifecycleEvent) {
	depth := metrics.LifecycleQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.deliver(ctx, id, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, event domain.LifecycleEvent) {
	typ := string(event.Type)

	if d.once != nil {
		first, err := d.once.MarkOnce(ctx, event.ID)
		if err != nil {
			d.log.Warn().Err(err).Str("event_id", event.ID).Msg("once marker failed, delivering anyway")
		} else if !first {
			metrics.LifecycleEventsSkippedTotal.WithLabelValues(typ).Inc()
			d.log.Debug().Str("event_id", event.ID).Str("type", typ).Msg("lifecycle event already delivered")
			return
		}
	}

	for _, sub := range d.subscribers {
		d.safeCall(ctx, workerID, sub, event)
	}
	metrics.LifecycleEventsDeliveredTotal.WithLabelValues(typ).Inc()
}

// safeCall keeps a panicking subscriber from taking its worker down.
func (d *Dispatcher) safeCall(ctx context.Context, workerID int, sub Subscriber, event domain.LifecycleEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("event_id", event.ID).
				Int("worker_id", workerID).
				Msg("lifecycle subscriber panicked")
		}
	}()
	sub(ctx, event)
}

var _ ports.EventPublisher = (*Dispatcher)(nil)
