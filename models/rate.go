package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateRecord is a dated insurance rate for one cargo type
type RateRecord struct {
	ID        int64           `json:"id"`
	Date      Date            `json:"date"`
	CargoType string          `json:"cargo_type"`
	Rate      decimal.Decimal `json:"rate"`
}

// RateForm represents the payload for creating or fully replacing a rate
type RateForm struct {
	Date      *Date            `json:"date"`
	CargoType *string          `json:"cargo_type"`
	Rate      *decimal.Decimal `json:"rate"`
}

// Validate validates the rate form data; every field is required
func (f *RateForm) Validate() ValidationErrors {
	var errs ValidationErrors

	if f.Date == nil {
		errs.Add("date", "Date is required (YYYY-MM-DD)")
	}
	if f.CargoType == nil || strings.TrimSpace(*f.CargoType) == "" {
		errs.Add("cargo_type", "Cargo type is required")
	}
	if f.Rate == nil {
		errs.Add("rate", "Rate is required")
	} else if !f.Rate.IsPositive() {
		errs.Add("rate", "Rate must be greater than zero")
	}

	return errs
}

// Record builds a RateRecord from a validated form
func (f *RateForm) Record(id int64) *RateRecord {
	return &RateRecord{
		ID:        id,
		Date:      *f.Date,
		CargoType: strings.TrimSpace(*f.CargoType),
		Rate:      *f.Rate,
	}
}

// RatePatch carries a partial update; nil fields are left unchanged
type RatePatch struct {
	Date      *Date            `json:"date"`
	CargoType *string          `json:"cargo_type"`
	Rate      *decimal.Decimal `json:"rate"`
}

// Validate checks only the supplied fields
func (p *RatePatch) Validate() ValidationErrors {
	var errs ValidationErrors

	if p.CargoType != nil && strings.TrimSpace(*p.CargoType) == "" {
		errs.Add("cargo_type", "Cargo type cannot be empty")
	}
	if p.Rate != nil && !p.Rate.IsPositive() {
		errs.Add("rate", "Rate must be greater than zero")
	}

	return errs
}

// Apply copies the supplied fields onto rec
func (p *RatePatch) Apply(rec *RateRecord) {
	if p.Date != nil {
		rec.Date = *p.Date
	}
	if p.CargoType != nil {
		rec.CargoType = strings.TrimSpace(*p.CargoType)
	}
	if p.Rate != nil {
		rec.Rate = *p.Rate
	}
}

// CalculationRequest holds the inputs of an insurance cost calculation
type CalculationRequest struct {
	UserID        *int64
	Date          Date
	CargoType     string
	DeclaredValue decimal.Decimal
}

// Validate validates the calculation request
func (c *CalculationRequest) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.UserID != nil && *c.UserID < 0 {
		errs.Add("user_id", "User ID cannot be negative")
	}
	if c.Date.IsZero() {
		errs.Add("date", "Date is required (YYYY-MM-DD)")
	}
	if strings.TrimSpace(c.CargoType) == "" {
		errs.Add("cargo_type", "Cargo type is required")
	}
	if c.DeclaredValue.IsNegative() {
		errs.Add("declared_value", "Declared value cannot be negative")
	}

	return errs
}

// Calculation is the result of an insurance cost calculation
type Calculation struct {
	Date          Date            `json:"date"`
	CargoType     string          `json:"cargo_type"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
	Rate          decimal.Decimal `json:"rate"`
	InsuranceCost decimal.Decimal `json:"insurance_cost"`
}
