package controllers

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/services"
)

// CalculationController handles insurance cost calculations
type CalculationController struct {
	services *services.RateServices
}

// NewCalculationController creates a new calculation controller
func NewCalculationController(services *services.RateServices) *CalculationController {
	return &CalculationController{
		services: services,
	}
}

// Calculate handles GET /api/v1/insurance_calculation?user_id=&date=&cargo_type=&declared_value=
func (c *CalculationController) Calculate(w http.ResponseWriter, r *http.Request) {
	req, errs := parseCalculationRequest(r)
	if errs.HasErrors() {
		writeError(w, http.StatusBadRequest, models.ErrValidation.Error(), errs...)
		return
	}

	calc, err := c.services.Rates.Calculate(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

func parseCalculationRequest(r *http.Request) (*models.CalculationRequest, models.ValidationErrors) {
	query := r.URL.Query()
	req := &models.CalculationRequest{CargoType: query.Get("cargo_type")}
	var errs models.ValidationErrors

	if s := query.Get("user_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			errs.Add("user_id", "User ID must be an integer")
		} else {
			req.UserID = &id
		}
	}

	if s := query.Get("date"); s != "" {
		t, err := models.ParseDate(s)
		if err != nil {
			errs.Add("date", "Date must be in YYYY-MM-DD format")
		} else {
			req.Date = models.NewDate(t)
		}
	}

	if s := query.Get("declared_value"); s == "" {
		errs.Add("declared_value", "Declared value is required")
	} else if v, err := decimal.NewFromString(s); err != nil {
		errs.Add("declared_value", "Declared value must be a number")
	} else {
		req.DeclaredValue = v
	}

	// Missing date and cargo type are reported by the service
	return req, errs
}
