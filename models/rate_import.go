package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ImportedRate is one cargo type entry of a bulk rate document
type ImportedRate struct {
	CargoType string          `json:"cargo_type"`
	Rate      decimal.Decimal `json:"rate"`
}

// ParseRateImport decodes and validates a bulk rate document, an object of
// date to ImportedRate list. Nothing is
// returned unless the whole document is valid.
func ParseRateImport(data []byte) ([]RateRecord, error) {
	var doc map[string][]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ValidationErrors{{Field: "document", Message: "Import document must be an object of date to rate list: " + err.Error()}}
	}

	dates := make([]string, 0, len(doc))
	for date := range doc {
		dates = append(dates, date)
	}
	// Map iteration order is random; keep upserts reproducible.
	sort.Strings(dates)

	var (
		errs    ValidationErrors
		records []RateRecord
	)
	for _, dateStr := range dates {
		date, err := ParseDate(dateStr)
		if err != nil {
			errs.Add(dateStr, fmt.Sprintf("Date %q must be in YYYY-MM-DD format", dateStr))
			continue
		}
		for i, raw := range doc[dateStr] {
			field := fmt.Sprintf("%s[%d]", dateStr, i)

			var entry ImportedRate
			if err := json.Unmarshal(raw, &entry); err != nil {
				errs.Add(field, "Entry must be {cargo_type, rate}: "+err.Error())
				continue
			}
			cargoType := strings.TrimSpace(entry.CargoType)
			if cargoType == "" {
				errs.Add(field, "Cargo type is required")
				continue
			}
			if !entry.Rate.IsPositive() {
				errs.Add(field, "Rate must be greater than zero")
				continue
			}
			records = append(records, RateRecord{
				Date:      NewDate(date),
				CargoType: cargoType,
				Rate:      entry.Rate,
			})
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}
	if len(records) == 0 {
		return nil, ValidationErrors{{Field: "document", Message: "Import document contains no rates"}}
	}
	return records, nil
}

// ImportResult summarises an applied bulk import
type ImportResult struct {
	Records int `json:"records"`
	Dates   int `json:"dates"`
}
