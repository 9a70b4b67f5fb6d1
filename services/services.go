package services

import (
	"log/slog"

	"github.com/blogem/insurance-rates/audit"
	"github.com/blogem/insurance-rates/repositories"
)

// RateServices holds the rate service instances
type RateServices struct {
	Rates   RateService
	Imports ImportService
}

// NewRateServices creates the rate services; every operation that changes or
// reads rates for a calculation is recorded through emitter
func NewRateServices(repos *repositories.RateRepositories, emitter audit.Emitter, importSource string) *RateServices {
	return &RateServices{
		Rates:   NewAuditedRateService(NewRateService(repos.Rates), emitter),
		Imports: NewAuditedImportService(NewImportService(repos.Rates, importSource), emitter),
	}
}

// LogServices holds the log service instances
type LogServices struct {
	Logs LogService
}

// NewLogServices creates the log services
func NewLogServices(repos *repositories.LogRepositories, metrics *LogMetrics, logger *slog.Logger) *LogServices {
	return &LogServices{
		Logs: NewLogService(repos.Logs, metrics, logger),
	}
}
