package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/repositories"
)

// MaxIngestBatch bounds how many events one Ingest call accepts
const MaxIngestBatch = 100

// LogService interface defines audit log ingestion and query logic
type LogService interface {
	Ingest(ctx context.Context, events []models.AuditEvent) ([]models.LogEntry, error)
	List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
}

// logService implements LogService interface
type logService struct {
	logRepo repositories.LogRepository
	metrics *LogMetrics
	logger  *slog.Logger
	now     func() models.Timestamp
}

// NewLogService creates a new log service; metrics may be nil
func NewLogService(logRepo repositories.LogRepository, metrics *LogMetrics, logger *slog.Logger) LogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &logService{
		logRepo: logRepo,
		metrics: metrics,
		logger:  logger,
		now:     models.Now,
	}
}

// Ingest validates and durably stores a batch of events. Duplicates are
// stored as they arrive. Store failures are reported as ErrUnavailable so
// the sender retries.
func (s *logService) Ingest(ctx context.Context, events []models.AuditEvent) ([]models.LogEntry, error) {
	if len(events) == 0 {
		return nil, models.ValidationErrors{{Field: "events", Message: "At least one event is required"}}
	}
	if len(events) > MaxIngestBatch {
		return nil, models.ValidationErrors{{Field: "events", Message: fmt.Sprintf("At most %d events per batch", MaxIngestBatch)}}
	}

	var errs models.ValidationErrors
	for i := range events {
		for _, e := range events[i].Validate() {
			errs.Add(fmt.Sprintf("events[%d].%s", i, e.Field), e.Message)
		}
	}
	if errs.HasErrors() {
		s.metrics.rejected(len(events))
		return nil, errs
	}

	received := s.now()
	entries := make([]models.LogEntry, len(events))
	for i, evt := range events {
		dateTime := evt.OccurredAt
		if dateTime.IsZero() {
			dateTime = received
		}
		entries[i] = models.LogEntry{
			EventID:    evt.EventID,
			UserID:     evt.UserID,
			Action:     evt.Action,
			Detail:     evt.Detail,
			DateTime:   models.NewTimestamp(dateTime.Time),
			ReceivedAt: received,
		}
	}

	if err := s.logRepo.AppendBatch(ctx, entries); err != nil {
		s.metrics.failed(len(entries))
		s.logger.ErrorContext(ctx, "failed to store log entries", "events", len(entries), "error", err)
		return nil, fmt.Errorf("%w: %w", models.ErrUnavailable, err)
	}

	for _, entry := range entries {
		s.metrics.ingested(entry.Action)
	}
	return entries, nil
}

// List returns entries matching filter, newest first
func (s *logService) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	if errs := filter.Validate(); errs.HasErrors() {
		return nil, errs
	}

	entries, err := s.logRepo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to query log entries", "error", err)
		return nil, fmt.Errorf("%w: %w", models.ErrUnavailable, err)
	}
	return entries, nil
}
