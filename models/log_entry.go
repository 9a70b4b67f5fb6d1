package models

import "encoding/json"

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 1000
)

// LogEntry is the persisted form of an AuditEvent
type LogEntry struct {
	ID         int64           `json:"id"`
	EventID    string          `json:"event_id"`
	UserID     *int64          `json:"user_id"`
	Action     Action          `json:"action"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	DateTime   Timestamp       `json:"date_time"`
	ReceivedAt Timestamp       `json:"received_at"`
}

// LogFilter narrows a log query. Zero values mean "no filter". Action is
// matched exactly, so an unknown action simply matches nothing.
type LogFilter struct {
	Action Action
	UserID *int64
	// Start is an inclusive lower bound on DateTime.
	Start *Timestamp
	// End is an exclusive upper bound on DateTime.
	End   *Timestamp
	Limit int
}

// Validate validates the filter and applies the default limit
func (f *LogFilter) Validate() ValidationErrors {
	var errs ValidationErrors

	if f.Start != nil && f.End != nil && !f.Start.Before(f.End.Time) {
		errs.Add("end_datetime", "End must be after start")
	}
	switch {
	case f.Limit < 0 || f.Limit > MaxLogLimit:
		errs.Add("limit", "Limit must be between 1 and 1000")
	case f.Limit == 0:
		f.Limit = DefaultLogLimit
	}

	return errs
}
