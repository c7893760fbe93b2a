package usage

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
)

// DefaultQueueCapacity bounds the tracker's queue when no capacity is
// configured.
const DefaultQueueCapacity = 256

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("tracker already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("tracker not started")

	// ErrClosed is returned by Track after shutdown has begun. Callers on
	// the request path may ignore it; the drop is already logged.
	ErrClosed = errors.New("tracker closed")
)

// TrackerConfig holds configuration for the tracker.
type TrackerConfig struct {
	// Capacity bounds the queue. Default: DefaultQueueCapacity.
	Capacity int

	// Logger receives drop warnings and handler failures.
	// Default: log.Default().
	Logger *log.Logger

	// OnDrop is called with each record discarded on overflow.
	OnDrop func(record *Record)
}

// DefaultTrackerConfig returns the default configuration.
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		Capacity: DefaultQueueCapacity,
		Logger:   log.Default(),
	}
}

// Tracker is a non-blocking telemetry sink. Track enqueues or drops and
// returns immediately; exactly one background goroutine dequeues in FIFO
// order and invokes the handler once per record. On overflow the oldest
// queued record is discarded, never the one being submitted.
//
// Shutdown closes the producer side first, then drains every queued
// record before the tracker reports stopped. Draining ignores external
// cancellation so queued work is not abandoned. A tracker is not
// restartable.
type Tracker struct {
	handler Handler
	config  *TrackerConfig
	logger  *log.Logger

	mu     sync.Mutex
	queue  []*Record
	closed bool

	wake    chan struct{}
	started atomic.Bool
	done    chan struct{}
}

// NewTracker creates a tracker delivering to the given handler.
func NewTracker(handler Handler, config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	if config.Capacity <= 0 {
		config.Capacity = DefaultQueueCapacity
	}
	logger := config.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Tracker{
		handler: handler,
		config:  config,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Track submits a record. It never blocks: the record is enqueued, or the
// oldest queued record is dropped with a warning to admit it. After Close
// the record is rejected with ErrClosed.
func (t *Tracker) Track(record *Record) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		t.logger.Printf("[chatkit] usage record dropped: tracker closed (model=%s)", record.ModelID)
		return ErrClosed
	}

	var dropped *Record
	if len(t.queue) >= t.config.Capacity {
		dropped = t.queue[0]
		t.queue = t.queue[1:]
	}
	t.queue = append(t.queue, record)
	t.mu.Unlock()

	if dropped != nil {
		t.logger.Printf("[chatkit] usage queue full (capacity=%d), dropped oldest record (model=%s)",
			t.config.Capacity, dropped.ModelID)
		if t.config.OnDrop != nil {
			t.config.OnDrop(dropped)
		}
	}

	select {
	case t.wake <- struct{}{}:
	default:
	}
	return nil
}

// Start launches the drain loop. Records tracked before Start queue up and
// are delivered once the loop runs.
func (t *Tracker) Start(ctx context.Context) error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	go t.run(ctx)
	return nil
}

// Stop closes the producer side, waits for the queue to drain, and
// returns once every record has been handed to the handler.
func (t *Tracker) Stop(ctx context.Context) error {
	if !t.started.Load() {
		return ErrNotStarted
	}

	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	select {
	case t.wake <- struct{}{}:
	default:
	}

	<-t.done
	return nil
}

// IsRunning returns true between Start and the end of Stop's drain.
func (t *Tracker) IsRunning() bool {
	select {
	case <-t.done:
		return false
	default:
		return t.started.Load()
	}
}

// QueueDepth returns the number of records awaiting delivery.
func (t *Tracker) QueueDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}

func (t *Tracker) run(ctx context.Context) {
	defer close(t.done)

	// Queued records are delivered with a detached context: once accepted,
	// a record is a commitment that caller cancellation must not unwind.
	deliveryCtx := context.WithoutCancel(ctx)

	for {
		if record := t.dequeue(); record != nil {
			t.deliver(deliveryCtx, record)
			continue
		}

		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return
		}

		select {
		case <-ctx.Done():
			// Context cancellation closes the producer side; anything
			// already queued still drains above.
			t.mu.Lock()
			t.closed = true
			t.mu.Unlock()
		case <-t.wake:
		}
	}
}

func (t *Tracker) dequeue() *Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.queue) == 0 {
		return nil
	}
	record := t.queue[0]
	t.queue = t.queue[1:]
	return record
}

func (t *Tracker) deliver(ctx context.Context, record *Record) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Printf("[chatkit] usage handler panicked: %v", r)
		}
	}()

	if err := t.handler.Handle(ctx, record); err != nil {
		t.logger.Printf("[chatkit] usage handler failed: %v", err)
	}
}
