package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Action names the rate service operation an audit event records
type Action string

const (
	ActionCreateRate Action = "create_insurance_rate"
	ActionUpdateRate Action = "update_insurance_rate"
	ActionDeleteRate Action = "delete_insurance_rate"
	ActionCalculate  Action = "get_insurance_rate_for_calc"
	ActionBulkLoad   Action = "bulk_load_rates"
)

// Actions lists the whole action vocabulary
var Actions = []Action{
	ActionCreateRate,
	ActionUpdateRate,
	ActionDeleteRate,
	ActionCalculate,
	ActionBulkLoad,
}

// Valid reports whether a belongs to the action vocabulary
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// AuditEvent records a single rate service action for the log service.
// It is immutable once emitted.
type AuditEvent struct {
	EventID    string          `json:"event_id"`
	Action     Action          `json:"action"`
	UserID     *int64          `json:"user_id"`
	OccurredAt Timestamp       `json:"occurred_at"`
	Detail     json.RawMessage `json:"detail,omitempty"`
}

// NewAuditEvent stamps a new event with a fresh id and the current UTC time.
// detail is marshalled as-is; a marshalling failure leaves Detail empty.
func NewAuditEvent(action Action, userID *int64, detail any) AuditEvent {
	evt := AuditEvent{
		EventID:    uuid.NewString(),
		Action:     action,
		UserID:     userID,
		OccurredAt: Now(),
	}
	if detail != nil {
		if raw, err := json.Marshal(detail); err == nil {
			evt.Detail = raw
		}
	}
	return evt
}

// Validate validates an incoming event at the ingestion boundary
func (e *AuditEvent) Validate() ValidationErrors {
	var errs ValidationErrors

	if !e.Action.Valid() {
		errs.Add("action", "Unknown action "+string(e.Action))
	}
	if e.UserID != nil && *e.UserID < 0 {
		errs.Add("user_id", "User ID cannot be negative")
	}
	if len(e.Detail) > 0 && !json.Valid(e.Detail) {
		errs.Add("detail", "Detail must be valid JSON")
	}

	return errs
}
