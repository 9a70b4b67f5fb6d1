package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/blogem/insurance-rates/models"
)

// Dispatcher is the production Emitter: a bounded queue drained by a pool of
// workers that deliver batches through a Transport with retry and backoff.
type Dispatcher struct {
	cfg       Config
	transport Transport
	metrics   Metrics
	logger    *slog.Logger

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
	queue  chan models.AuditEvent

	// ctx is cancelled when Close gives up waiting, which aborts pending retries.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Emitter = (*Dispatcher)(nil)

// NewDispatcher starts the delivery workers.
func NewDispatcher(transport Transport, opts ...Option) *Dispatcher {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		cfg:       cfg,
		transport: transport,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With("component", "audit.dispatcher"),
		queue:     make(chan models.AuditEvent, cfg.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	d.logger.Info("audit dispatcher started",
		"queue_size", cfg.QueueSize,
		"workers", cfg.Workers,
		"batch_size", cfg.BatchSize,
	)
	return d
}

// Emit enqueues evt without blocking. When the queue is full or the
// dispatcher is closed the event is dropped and counted.
func (d *Dispatcher) Emit(evt models.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(evt, DropClosed)
		return
	}

	select {
	case d.queue <- evt:
		d.metrics.EventEmitted(evt.Action)
		d.metrics.QueueDepth(len(d.queue))
	default:
		d.drop(evt, DropQueueFull)
	}
}

// Close stops accepting events and waits for the queue to drain. When ctx
// expires first, in-flight retries are abandoned and the remaining events
// are lost.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		d.logger.Warn("audit dispatcher close timed out, abandoning queued events", "pending", len(d.queue))
		err = ctx.Err()
		d.cancel()
		<-done
	}
	d.cancel()

	if cerr := d.transport.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

// Pending returns the number of queued events.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for evt := range d.queue {
		batch := d.fillBatch(evt)
		d.metrics.QueueDepth(len(d.queue))
		d.deliver(batch)
	}
}

// fillBatch takes whatever is already queued behind first, up to BatchSize.
func (d *Dispatcher) fillBatch(first models.AuditEvent) []models.AuditEvent {
	batch := []models.AuditEvent{first}
	for len(batch) < d.cfg.BatchSize {
		select {
		case evt, ok := <-d.queue:
			if !ok {
				return batch
			}
			batch = append(batch, evt)
		default:
			return batch
		}
	}
	return batch
}

// deliver sends batch with retries. When a batch of several events is
// rejected, each event is sent on its own so one bad event cannot take the
// rest of the batch down with it.
func (d *Dispatcher) deliver(batch []models.AuditEvent) {
	start := time.Now()
	attempts, err := d.send(batch)

	switch {
	case errors.Is(err, ErrPermanent) && len(batch) > 1:
		d.logger.Warn("audit batch rejected, delivering events one at a time",
			"error", err,
			"events", len(batch),
		)
		for _, evt := range batch {
			d.deliver([]models.AuditEvent{evt})
		}
	case errors.Is(err, ErrPermanent):
		d.dropBatch(batch, DropRejected, err)
	case err != nil:
		d.dropBatch(batch, DropExhausted, err)
	default:
		d.metrics.DeliveryLatency(time.Since(start))
		for _, evt := range batch {
			d.metrics.EventDelivered(evt.Action)
		}
		d.logger.Debug("audit events delivered", "events", len(batch), "attempts", attempts)
	}
}

// send retries transient failures until the backoff gives up or the
// dispatcher is cancelled. Permanent failures end the loop at once.
func (d *Dispatcher) send(batch []models.AuditEvent) (int, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.cfg.RetryInitial
	b.MaxInterval = d.cfg.RetryMaxInterval
	b.MaxElapsedTime = d.cfg.RetryMaxElapsed

	attempts := 0
	err := backoff.RetryNotify(func() error {
		attempts++
		ctx, cancel := context.WithTimeout(d.ctx, d.cfg.SendTimeout)
		defer cancel()

		err := d.transport.Send(ctx, batch)
		if errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, d.ctx), func(err error, wait time.Duration) {
		d.metrics.DeliveryRetried()
		d.logger.Warn("audit delivery failed, retrying",
			"error", err,
			"events", len(batch),
			"attempt", attempts,
			"retry_in", wait,
		)
	})
	return attempts, err
}

func (d *Dispatcher) drop(evt models.AuditEvent, reason string) {
	d.metrics.EventDropped(evt.Action, reason)
	d.logger.Error("audit event dropped",
		"reason", reason,
		"event_id", evt.EventID,
		"action", evt.Action,
	)
}

func (d *Dispatcher) dropBatch(batch []models.AuditEvent, reason string, err error) {
	for _, evt := range batch {
		d.metrics.EventDropped(evt.Action, reason)
		d.logger.Error("audit event dropped",
			"reason", reason,
			"error", err,
			"event_id", evt.EventID,
			"action", evt.Action,
		)
	}
}
