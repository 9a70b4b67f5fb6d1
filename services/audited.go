package services

import (
	"context"

	"github.com/blogem/insurance-rates/audit"
	"github.com/blogem/insurance-rates/models"
)

// auditedRateService emits one audit event after every successful mutating
// or calculating call. Events are only emitted once the wrapped call has
// returned, so an event is never visible before its change is committed.
type auditedRateService struct {
	RateService
	emitter audit.Emitter
}

// NewAuditedRateService wraps next so its operations are recorded in the audit log
func NewAuditedRateService(next RateService, emitter audit.Emitter) RateService {
	return &auditedRateService{RateService: next, emitter: emitter}
}

type rateDetail struct {
	RateID int64 `json:"rate_id"`
}

func (s *auditedRateService) CreateRate(ctx context.Context, form *models.RateForm) (*models.RateRecord, error) {
	rate, err := s.RateService.CreateRate(ctx, form)
	if err == nil {
		s.emitter.Emit(models.NewAuditEvent(models.ActionCreateRate, nil, rateDetail{rate.ID}))
	}
	return rate, err
}

func (s *auditedRateService) UpdateRate(ctx context.Context, id int64, form *models.RateForm) (*models.RateRecord, error) {
	rate, err := s.RateService.UpdateRate(ctx, id, form)
	if err == nil {
		s.emitter.Emit(models.NewAuditEvent(models.ActionUpdateRate, nil, rateDetail{rate.ID}))
	}
	return rate, err
}

func (s *auditedRateService) PatchRate(ctx context.Context, id int64, patch *models.RatePatch) (*models.RateRecord, error) {
	rate, err := s.RateService.PatchRate(ctx, id, patch)
	if err == nil {
		s.emitter.Emit(models.NewAuditEvent(models.ActionUpdateRate, nil, rateDetail{rate.ID}))
	}
	return rate, err
}

func (s *auditedRateService) DeleteRate(ctx context.Context, id int64) error {
	err := s.RateService.DeleteRate(ctx, id)
	if err == nil {
		s.emitter.Emit(models.NewAuditEvent(models.ActionDeleteRate, nil, rateDetail{id}))
	}
	return err
}

func (s *auditedRateService) Calculate(ctx context.Context, req *models.CalculationRequest) (*models.Calculation, error) {
	calc, err := s.RateService.Calculate(ctx, req)
	if err == nil {
		s.emitter.Emit(models.NewAuditEvent(models.ActionCalculate, req.UserID, calc))
	}
	return calc, err
}

// auditedImportService emits a single bulk_load_rates event per applied import
type auditedImportService struct {
	ImportService
	emitter audit.Emitter
}

// NewAuditedImportService wraps next so each applied import is recorded once
func NewAuditedImportService(next ImportService, emitter audit.Emitter) ImportService {
	return &auditedImportService{ImportService: next, emitter: emitter}
}

func (s *auditedImportService) ImportRates(ctx context.Context, document []byte) (*models.ImportResult, error) {
	result, err := s.ImportService.ImportRates(ctx, document)
	if err == nil {
		s.emitter.Emit(models.NewAuditEvent(models.ActionBulkLoad, nil, result))
	}
	return result, err
}

// The wrapped ImportFromSource calls the unwrapped ImportRates, so this is the only emit for it.
func (s *auditedImportService) ImportFromSource(ctx context.Context) (*models.ImportResult, error) {
	result, err := s.ImportService.ImportFromSource(ctx)
	if err == nil {
		s.emitter.Emit(models.NewAuditEvent(models.ActionBulkLoad, nil, result))
	}
	return result, err
}
