package controllers

import (
	"net/http"

	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/services"
)

// RateController handles rate management requests
type RateController struct {
	services *services.RateServices
}

// NewRateController creates a new rate controller
func NewRateController(services *services.RateServices) *RateController {
	return &RateController{
		services: services,
	}
}

// Index handles GET /api/v1/rates
func (c *RateController) Index(w http.ResponseWriter, r *http.Request) {
	rates, err := c.services.Rates.ListRates(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if rates == nil {
		rates = []models.RateRecord{}
	}
	writeJSON(w, http.StatusOK, rates)
}

// Show handles GET /api/v1/rates/{id}
func (c *RateController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	rate, err := c.services.Rates.GetRate(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// Create handles POST /api/v1/rates
func (c *RateController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.RateForm
	if !decodeJSON(w, r, &form) {
		return
	}

	rate, err := c.services.Rates.CreateRate(r.Context(), &form)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rate)
}

// Update handles PUT /api/v1/rates/{id}
func (c *RateController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var form models.RateForm
	if !decodeJSON(w, r, &form) {
		return
	}

	rate, err := c.services.Rates.UpdateRate(r.Context(), id, &form)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// Patch handles PATCH /api/v1/rates/{id}
func (c *RateController) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var patch models.RatePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	rate, err := c.services.Rates.PatchRate(r.Context(), id, &patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// Delete handles DELETE /api/v1/rates/{id}
func (c *RateController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := c.services.Rates.DeleteRate(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
