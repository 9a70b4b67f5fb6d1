package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar date format used on the wire and in storage.
	DateLayout = "2006-01-02"
	// QueryTimeLayout is the start_datetime/end_datetime query parameter format.
	QueryTimeLayout = "2006-01-02 15:04:05"
	// wireTimeLayout renders timestamps as naive UTC ISO 8601.
	wireTimeLayout = "2006-01-02T15:04:05.000000"
	// storageTimeLayout is fixed width so lexical order in sqlite equals time order.
	storageTimeLayout = "2006-01-02T15:04:05.000000Z"
)

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(dateStr))
}

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return FormatDate(d.Time)
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	*d = Date{t}
	return nil
}

// Timestamp is an instant on the UTC timeline. On the wire it is rendered
// without a zone designator, matching what log consumers already parse.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts t to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC()}
}

// Now returns the current UTC time as a Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// MarshalJSON renders the timestamp as naive UTC ISO 8601.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(wireTimeLayout))
}

// UnmarshalJSON accepts RFC 3339 or a naive timestamp interpreted as UTC.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = t
	return nil
}

// StorageString is the fixed-width representation persisted in sqlite.
func (ts Timestamp) StorageString() string {
	return ts.UTC().Format(storageTimeLayout)
}

// ParseStorageTimestamp reverses StorageString.
func ParseStorageTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(storageTimeLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return NewTimestamp(t), nil
}

// ParseTimestamp parses RFC 3339 (offset honoured), naive ISO 8601 and
// "YYYY-MM-DD HH:MM:SS". Values without an offset are taken as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewTimestamp(t), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", QueryTimeLayout} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("timestamp %q must be in %q or RFC 3339 format", s, "YYYY-MM-DD HH:MM:SS")
}
