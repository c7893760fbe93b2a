package store

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// DefaultCleanupInterval is how often the cleaner sweeps expired rows.
const DefaultCleanupInterval = 1 * time.Minute

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("cleaner already started")

	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("cleaner not started")
)

// ExpiredDeleter deletes rows whose TTL has elapsed. Both the thread store
// and the postgres cache implement it.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CleanupConfig holds configuration for the cleaner.
type CleanupConfig struct {
	// Interval is how often to sweep. Default: 1 minute.
	Interval time.Duration

	// OnCleanup is called after a sweep that removed rows.
	OnCleanup func(count int64)

	// OnError is called when a sweep fails.
	OnError func(err error)
}

// DefaultCleanupConfig returns the default configuration.
func DefaultCleanupConfig() *CleanupConfig {
	return &CleanupConfig{Interval: DefaultCleanupInterval}
}

// Cleaner periodically deletes expired rows from its targets. Expired rows
// are already invisible to Load; the cleaner only reclaims space.
type Cleaner struct {
	targets []ExpiredDeleter
	config  *CleanupConfig

	started atomic.Bool
	done    chan struct{}
	cancel  context.CancelFunc
}

// NewCleaner creates a cleaner for the given targets.
func NewCleaner(config *CleanupConfig, targets ...ExpiredDeleter) *Cleaner {
	if config == nil {
		config = DefaultCleanupConfig()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultCleanupInterval
	}

	return &Cleaner{
		targets: targets,
		config:  config,
	}
}

// Start begins the sweep loop. It returns immediately.
func (c *Cleaner) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	c.done = make(chan struct{})
	ctx, c.cancel = context.WithCancel(ctx)
	go c.run(ctx)

	return nil
}

// Stop stops the sweep loop.
func (c *Cleaner) Stop(ctx context.Context) error {
	if !c.started.Load() {
		return ErrNotStarted
	}

	c.cancel()
	<-c.done

	c.started.Store(false)
	return nil
}

// IsRunning returns true if the cleaner is running.
func (c *Cleaner) IsRunning() bool {
	return c.started.Load()
}

func (c *Cleaner) run(ctx context.Context) {
	defer close(c.done)

	// Sweep immediately on start.
	c.sweep(ctx)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *Cleaner) sweep(ctx context.Context) {
	count, err := c.RunOnce(ctx)
	if err != nil && c.config.OnError != nil {
		c.config.OnError(err)
	}
	if count > 0 && c.config.OnCleanup != nil {
		c.config.OnCleanup(count)
	}
}

// RunOnce sweeps every target once and returns the total rows removed.
// It can be called manually for testing or one-off cleanup.
func (c *Cleaner) RunOnce(ctx context.Context) (int64, error) {
	var total int64
	var errs []error

	for _, target := range c.targets {
		count, err := target.DeleteExpired(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += count
	}

	return total, errors.Join(errs...)
}
