package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blogem/insurance-rates/models"
)

// LogRepository interface defines log entry database operations
type LogRepository interface {
	AppendBatch(ctx context.Context, entries []models.LogEntry) error
	List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)
}

// logRepository implements LogRepository interface
type logRepository struct {
	db *sql.DB
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *sql.DB) LogRepository {
	return &logRepository{db: db}
}

// AppendBatch inserts the entries in one transaction and sets their IDs.
// It returns only after the commit, so a nil error means the batch is durable.
func (r *logRepository) AppendBatch(ctx context.Context, entries []models.LogEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin log transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO logs (event_id, user_id, action, detail, date_time, received_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare log insert: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		entry := &entries[i]

		var detail sql.NullString
		if len(entry.Detail) > 0 {
			detail = sql.NullString{String: string(entry.Detail), Valid: true}
		}
		var userID sql.NullInt64
		if entry.UserID != nil {
			userID = sql.NullInt64{Int64: *entry.UserID, Valid: true}
		}

		result, err := stmt.ExecContext(ctx,
			entry.EventID,
			userID,
			string(entry.Action),
			detail,
			entry.DateTime.StorageString(),
			entry.ReceivedAt.StorageString(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert log entry: %w", err)
		}
		if entry.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get log entry id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit log entries: %w", err)
	}

	return nil
}

// List retrieves log entries matching the filter, newest first
func (r *logRepository) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	var (
		where []string
		args  []any
	)
	if filter.Action != "" {
		where = append(where, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Start != nil {
		where = append(where, "date_time >= ?")
		args = append(args, filter.Start.StorageString())
	}
	if filter.End != nil {
		where = append(where, "date_time < ?")
		args = append(args, filter.End.StorageString())
	}

	query := `
		SELECT id, event_id, user_id, action, detail, date_time, received_at
		FROM logs
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date_time DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	entries := []models.LogEntry{}
	for rows.Next() {
		var (
			entry                models.LogEntry
			userID               sql.NullInt64
			action               string
			detail               sql.NullString
			dateTime, receivedAt string
		)
		if err := rows.Scan(&entry.ID, &entry.EventID, &userID, &action, &detail, &dateTime, &receivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}

		entry.Action = models.Action(action)
		if userID.Valid {
			entry.UserID = &userID.Int64
		}
		if detail.Valid {
			entry.Detail = json.RawMessage(detail.String)
		}
		if entry.DateTime, err = models.ParseStorageTimestamp(dateTime); err != nil {
			return nil, err
		}
		if entry.ReceivedAt, err = models.ParseStorageTimestamp(receivedAt); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}

	return entries, nil
}
