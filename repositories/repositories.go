package repositories

import (
	"database/sql"
)

// RateRepositories holds the repositories owned by the rate service
type RateRepositories struct {
	Rates RateRepository
}

// NewRateRepositories creates the rate service repositories
func NewRateRepositories(db *sql.DB) *RateRepositories {
	return &RateRepositories{
		Rates: NewRateRepository(db),
	}
}

// LogRepositories holds the repositories owned by the log service
type LogRepositories struct {
	Logs LogRepository
}

// NewLogRepositories creates the log service repositories
func NewLogRepositories(db *sql.DB) *LogRepositories {
	return &LogRepositories{
		Logs: NewLogRepository(db),
	}
}
