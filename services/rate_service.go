package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/repositories"
)

// RateService interface defines rate management and calculation business logic
type RateService interface {
	ListRates(ctx context.Context) ([]models.RateRecord, error)
	GetRate(ctx context.Context, id int64) (*models.RateRecord, error)
	CreateRate(ctx context.Context, form *models.RateForm) (*models.RateRecord, error)
	UpdateRate(ctx context.Context, id int64, form *models.RateForm) (*models.RateRecord, error)
	PatchRate(ctx context.Context, id int64, patch *models.RatePatch) (*models.RateRecord, error)
	DeleteRate(ctx context.Context, id int64) error
	Calculate(ctx context.Context, req *models.CalculationRequest) (*models.Calculation, error)
}

// rateService implements RateService interface
type rateService struct {
	rateRepo repositories.RateRepository
}

// NewRateService creates a new rate service
func NewRateService(rateRepo repositories.RateRepository) RateService {
	return &rateService{
		rateRepo: rateRepo,
	}
}

// ListRates retrieves all rates
func (s *rateService) ListRates(ctx context.Context) ([]models.RateRecord, error) {
	return s.rateRepo.GetAll(ctx)
}

// GetRate retrieves a rate by ID
func (s *rateService) GetRate(ctx context.Context, id int64) (*models.RateRecord, error) {
	if id <= 0 {
		return nil, fmt.Errorf("rate with ID %d: %w", id, models.ErrNotFound)
	}
	return s.rateRepo.GetByID(ctx, id)
}

// CreateRate creates a new rate with validation
func (s *rateService) CreateRate(ctx context.Context, form *models.RateForm) (*models.RateRecord, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	rate := form.Record(0)
	if err := s.rateRepo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to create rate: %w", err)
	}

	return rate, nil
}

// UpdateRate replaces every field of an existing rate
func (s *rateService) UpdateRate(ctx context.Context, id int64, form *models.RateForm) (*models.RateRecord, error) {
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	rate := form.Record(id)
	if err := s.rateRepo.Update(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to update rate: %w", err)
	}

	return rate, nil
}

// PatchRate updates only the supplied fields of an existing rate
func (s *rateService) PatchRate(ctx context.Context, id int64, patch *models.RatePatch) (*models.RateRecord, error) {
	if errs := patch.Validate(); errs.HasErrors() {
		return nil, errs
	}

	rate, err := s.GetRate(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(rate)
	if err := s.rateRepo.Update(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to update rate: %w", err)
	}

	return rate, nil
}

// DeleteRate removes a rate; deleting a missing rate is an error
func (s *rateService) DeleteRate(ctx context.Context, id int64) error {
	if err := s.rateRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete rate: %w", err)
	}
	return nil
}

// Calculate multiplies the declared value by the rate valid for exactly the
// requested date and cargo type
func (s *rateService) Calculate(ctx context.Context, req *models.CalculationRequest) (*models.Calculation, error) {
	if errs := req.Validate(); errs.HasErrors() {
		return nil, errs
	}

	rate, err := s.rateRepo.FindByDateAndCargoType(ctx, req.Date, strings.TrimSpace(req.CargoType))
	if err != nil {
		return nil, err
	}

	return &models.Calculation{
		Date:          rate.Date,
		CargoType:     rate.CargoType,
		DeclaredValue: req.DeclaredValue,
		Rate:          rate.Rate,
		InsuranceCost: req.DeclaredValue.Mul(rate.Rate),
	}, nil
}
