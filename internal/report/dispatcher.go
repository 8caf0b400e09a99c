package report

import (
	"context"
	"sync"
	"time"

	"github.com/wardenlabs/scambait/internal/observability/metrics"
	"github.com/wardenlabs/scambait/pkg/logging"
)

// Sender delivers one callback payload.
type Sender interface {
	Deliver(ctx context.Context, payload Payload) error
}

const (
	defaultWorkers   = 2
	defaultQueueSize = 64
	defaultTimeout   = 10 * time.Second
)

// Dispatcher runs a bounded worker pool that delivers callbacks detached
// from the request path. Enqueueing never blocks: when the queue is full the
// payload is dropped with a log line, matching the no-retry contract.
type Dispatcher struct {
	sender  Sender
	queue   chan Payload
	timeout time.Duration
	metrics *metrics.PipelineMetrics
	logger  *logging.Logger

	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
	workers int
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWorkerCount overrides the number of delivery goroutines.
func WithWorkerCount(workers int) DispatcherOption {
	return func(d *Dispatcher) {
		if workers > 0 {
			d.workers = workers
		}
	}
}

// WithQueueSize overrides the pending-delivery buffer size.
func WithQueueSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queue = make(chan Payload, size)
		}
	}
}

// WithDeliveryTimeout bounds each delivery attempt.
func WithDeliveryTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher starts the worker pool immediately.
func NewDispatcher(sender Sender, m *metrics.PipelineMetrics, logger *logging.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan Payload, defaultQueueSize),
		timeout: defaultTimeout,
		metrics: m,
		logger:  logger.WithComponent("report-dispatcher"),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(d)
	}
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Dispatch enqueues a payload for asynchronous delivery. It never blocks the
// caller; a full queue or a closed dispatcher drops the payload.
func (d *Dispatcher) Dispatch(payload Payload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping callback", "session_id", payload.SessionID)
		d.metrics.ObserveCallback("dropped")
		return
	}
	select {
	case d.queue <- payload:
	default:
		d.logger.Warn("callback queue full, dropping payload", "session_id", payload.SessionID)
		d.metrics.ObserveCallback("dropped")
	}
}

// Shutdown stops accepting work and waits for in-flight deliveries, bounded
// by ctx.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
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

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for payload := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.sender.Deliver(ctx, payload)
		cancel()
		if err != nil {
			// Best-effort contract: log and move on, never retry.
			d.logger.Error("callback delivery failed",
				"session_id", payload.SessionID,
				"error", err.Error(),
			)
			d.metrics.ObserveCallback("failed")
			continue
		}
		d.logger.Info("callback delivered",
			"session_id", payload.SessionID,
			"messages", payload.TotalMessagesExchanged,
		)
		d.metrics.ObserveCallback("delivered")
	}
}
