package controllers

import (
	"io"
	"net/http"

	"github.com/blogem/insurance-rates/services"
)

// maxImportBytes bounds an uploaded bulk rate document
const maxImportBytes = 10 << 20

// AdministrationController handles bulk rate imports
type AdministrationController struct {
	services *services.RateServices
}

// NewAdministrationController creates a new administration controller
func NewAdministrationController(services *services.RateServices) *AdministrationController {
	return &AdministrationController{
		services: services,
	}
}

// ImportFromSource handles GET /api/v1/administration/import_rates
func (c *AdministrationController) ImportFromSource(w http.ResponseWriter, r *http.Request) {
	if _, err := c.services.Imports.ImportFromSource(r.Context()); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Import handles POST /api/v1/administration/import_rates with the document as body
func (c *AdministrationController) Import(w http.ResponseWriter, r *http.Request) {
	document, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read import document: "+err.Error())
		return
	}

	if _, err := c.services.Imports.ImportRates(r.Context(), document); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
