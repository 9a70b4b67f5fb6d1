package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blogem/insurance-rates/models"
)

// RateRepository interface defines rate database operations
type RateRepository interface {
	GetAll(ctx context.Context) ([]models.RateRecord, error)
	GetByID(ctx context.Context, id int64) (*models.RateRecord, error)
	FindByDateAndCargoType(ctx context.Context, date models.Date, cargoType string) (*models.RateRecord, error)
	Create(ctx context.Context, rate *models.RateRecord) error
	Update(ctx context.Context, rate *models.RateRecord) error
	Delete(ctx context.Context, id int64) error
	UpsertBatch(ctx context.Context, rates []models.RateRecord) (int, error)
}

// rateRepository implements RateRepository interface
type rateRepository struct {
	db *sql.DB
}

// NewRateRepository creates a new rate repository
func NewRateRepository(db *sql.DB) RateRepository {
	return &rateRepository{db: db}
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRate(row rowScanner) (*models.RateRecord, error) {
	var (
		rate models.RateRecord
		date string
	)
	if err := row.Scan(&rate.ID, &date, &rate.CargoType, &rate.Rate); err != nil {
		return nil, err
	}
	parsed, err := models.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	rate.Date = models.NewDate(parsed)
	return &rate, nil
}

// GetAll retrieves all rates ordered by date then cargo type
func (r *rateRepository) GetAll(ctx context.Context) ([]models.RateRecord, error) {
	query := `
		SELECT id, date, cargo_type, rate
		FROM rates
		ORDER BY date ASC, cargo_type ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	rates := []models.RateRecord{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, *rate)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rates: %w", err)
	}

	return rates, nil
}

// GetByID retrieves a rate by ID
func (r *rateRepository) GetByID(ctx context.Context, id int64) (*models.RateRecord, error) {
	query := `
		SELECT id, date, cargo_type, rate
		FROM rates
		WHERE id = ?
	`

	rate, err := scanRate(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rate with ID %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate: %w", err)
	}

	return rate, nil
}

// FindByDateAndCargoType returns the newest rate for an exact (date, cargo type) match
func (r *rateRepository) FindByDateAndCargoType(ctx context.Context, date models.Date, cargoType string) (*models.RateRecord, error) {
	rate, err := findLatest(ctx, r.db, date, cargoType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rate for %s on %s: %w", cargoType, date, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find rate: %w", err)
	}
	return rate, nil
}

// findLatest picks the highest id so lookups stay deterministic when the
// table holds more than one row for the pair.
func findLatest(ctx context.Context, q queryer, date models.Date, cargoType string) (*models.RateRecord, error) {
	query := `
		SELECT id, date, cargo_type, rate
		FROM rates
		WHERE date = ? AND cargo_type = ?
		ORDER BY id DESC
		LIMIT 1
	`
	return scanRate(q.QueryRowContext(ctx, query, date.String(), cargoType))
}

// Create inserts a new rate and sets its ID
func (r *rateRepository) Create(ctx context.Context, rate *models.RateRecord) error {
	id, err := insertRate(ctx, r.db, rate)
	if err != nil {
		return fmt.Errorf("failed to create rate: %w", err)
	}
	rate.ID = id
	return nil
}

func insertRate(ctx context.Context, q queryer, rate *models.RateRecord) (int64, error) {
	query := `
		INSERT INTO rates (date, cargo_type, rate)
		VALUES (?, ?, ?)
	`

	result, err := q.ExecContext(ctx, query, rate.Date.String(), rate.CargoType, rate.Rate.String())
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// Update replaces every field of an existing rate
func (r *rateRepository) Update(ctx context.Context, rate *models.RateRecord) error {
	query := `
		UPDATE rates
		SET date = ?, cargo_type = ?, rate = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, rate.Date.String(), rate.CargoType, rate.Rate.String(), rate.ID)
	if err != nil {
		return fmt.Errorf("failed to update rate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("rate with ID %d: %w", rate.ID, models.ErrNotFound)
	}

	return nil
}

// Delete removes a rate
func (r *rateRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM rates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rate: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("rate with ID %d: %w", id, models.ErrNotFound)
	}

	return nil
}

// UpsertBatch creates or overwrites one rate per (date, cargo type) inside a
// single transaction. Either every row is applied or none is.
func (r *rateRepository) UpsertBatch(ctx context.Context, rates []models.RateRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range rates {
		rate := &rates[i]

		existing, err := findLatest(ctx, tx, rate.Date, rate.CargoType)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id, err := insertRate(ctx, tx, rate)
			if err != nil {
				return 0, fmt.Errorf("failed to insert %s on %s: %w", rate.CargoType, rate.Date, err)
			}
			rate.ID = id
		case err != nil:
			return 0, fmt.Errorf("failed to look up %s on %s: %w", rate.CargoType, rate.Date, err)
		default:
			if _, err := tx.ExecContext(ctx, "UPDATE rates SET rate = ? WHERE id = ?", rate.Rate.String(), existing.ID); err != nil {
				return 0, fmt.Errorf("failed to overwrite %s on %s: %w", rate.CargoType, rate.Date, err)
			}
			rate.ID = existing.ID
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	return len(rates), nil
}
