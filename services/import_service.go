package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/repositories"
)

// ImportService loads many rates from a bulk rate document as one operation
type ImportService interface {
	ImportRates(ctx context.Context, document []byte) (*models.ImportResult, error)
	ImportFromSource(ctx context.Context) (*models.ImportResult, error)
}

// importService implements ImportService interface
type importService struct {
	rateRepo   repositories.RateRepository
	sourcePath string
}

// NewImportService creates a new import service reading its default document from sourcePath
func NewImportService(rateRepo repositories.RateRepository, sourcePath string) ImportService {
	return &importService{
		rateRepo:   rateRepo,
		sourcePath: sourcePath,
	}
}

// ImportRates validates the whole document before touching the store, then
// upserts every entry in one transaction
func (s *importService) ImportRates(ctx context.Context, document []byte) (*models.ImportResult, error) {
	records, err := models.ParseRateImport(document)
	if err != nil {
		return nil, err
	}

	n, err := s.rateRepo.UpsertBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to import rates: %w", err)
	}

	dates := make(map[string]struct{})
	for _, rec := range records {
		dates[rec.Date.String()] = struct{}{}
	}

	return &models.ImportResult{Records: n, Dates: len(dates)}, nil
}

// ImportFromSource imports the document at the configured source path
func (s *importService) ImportFromSource(ctx context.Context) (*models.ImportResult, error) {
	document, err := os.ReadFile(s.sourcePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, models.ValidationErrors{{Field: "source", Message: fmt.Sprintf("Import source %s does not exist", s.sourcePath)}}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read import source: %w", err)
	}

	return s.ImportRates(ctx, document)
}
