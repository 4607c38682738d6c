package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventzone/eventzone-api/internal/core/domain"
	"github.com/eventzone/eventzone-api/internal/core/ports"
	"github.com/eventzone/eventzone-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the subject, keeping each account's events in order.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	service ports.AuditService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer events. Non-positive values fall back to defaults.
func NewDispatcher(numWorkers, buffer int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is handed to the audit service
// for every event; workers exit only once Stop has closed their channels, so
// ctx should outlive the HTTP server.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes the worker channels and waits for the buffered events to be
// processed. It returns ctx.Err() if ctx ends first. Events enqueued after
// Stop are dropped and counted.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue hands an event to the worker responsible for its subject. It never
// blocks: when that worker's buffer is full, or the dispatcher is stopped,
// the event is dropped and counted.
func (d *Dispatcher) Enqueue(event domain.AuthEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.shardIndex(event.Subject)
	if d.stopped {
		d.drop(event, idx, "audit dispatcher stopped, event dropped")
		return
	}
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(event, idx, "audit queue full, event dropped")
	}
}

func (d *Dispatcher) drop(event domain.AuthEvent, idx int, msg string) {
	metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("type", string(event.Type)).
		Int("worker_id", idx).
		Msg(msg)
}

// shardIndex maps a subject deterministically to a worker index.
func (d *Dispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		if err := d.service.Process(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("event_id", event.ID).
				Str("type", string(event.Type)).
				Int("worker_id", id).
				Msg("audit event processing failed")
		}
	}
}
