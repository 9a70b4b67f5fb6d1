// Package audit carries audit events from the rate service to the log
// service without ever blocking the request that produced them.
//
// An Emitter accepts events; the Dispatcher implementation queues them in a
// bounded buffer and a pool of workers delivers them through a Transport,
// retrying transient failures with exponential backoff. Delivery is
// at-least-once: a batch that was stored but whose acknowledgement was lost
// is sent again.
package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogem/insurance-rates/models"
)

// Emitter hands an event off for background delivery. Emit must return
// immediately and must never fail the caller.
type Emitter interface {
	Emit(evt models.AuditEvent)
}

// NopEmitter discards every event.
type NopEmitter struct{}

func (NopEmitter) Emit(models.AuditEvent) {}

// Transport delivers a batch of events to the log service. A nil error means
// the batch is durably stored on the other side.
type Transport interface {
	Send(ctx context.Context, events []models.AuditEvent) error
	Close() error
}

// ErrPermanent marks a delivery error that retrying cannot fix.
var ErrPermanent = errors.New("permanent delivery failure")

// Permanent wraps err so the dispatcher gives up on the batch at once.
func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

// Ingester is the log service side of an in-process pipeline.
type Ingester interface {
	Ingest(ctx context.Context, events []models.AuditEvent) ([]models.LogEntry, error)
}

// IngesterTransport calls an Ingester directly. Events still travel through
// the dispatcher queue, so the caller stays decoupled from storage latency.
type IngesterTransport struct {
	ingester Ingester
}

// NewIngesterTransport creates a transport that feeds an in-process Ingester
func NewIngesterTransport(ingester Ingester) *IngesterTransport {
	return &IngesterTransport{ingester: ingester}
}

// Send ingests the batch; validation failures are permanent.
func (t *IngesterTransport) Send(ctx context.Context, events []models.AuditEvent) error {
	if _, err := t.ingester.Ingest(ctx, events); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return Permanent(err)
		}
		return err
	}
	return nil
}

// Close is a no-op.
func (t *IngesterTransport) Close() error {
	return nil
}
