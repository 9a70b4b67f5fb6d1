package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogem/insurance-rates/authenticator"
	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/services"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx JSON response
type errorResponse struct {
	Error   string                   `json:"error"`
	Details []models.ValidationError `json:"details,omitempty"`
}

// writeJSON encodes data with the given status code
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error body
func writeError(w http.ResponseWriter, status int, message string, details ...models.ValidationError) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// handleServiceError maps service errors to status codes
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errs, ok := models.AsValidationErrors(err); ok {
		writeError(w, http.StatusBadRequest, models.ErrValidation.Error(), errs...)
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes a bounded request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// idParam parses the {id} URL parameter
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate ID")
		return 0, false
	}
	return id, true
}

// RateControllers holds the rate service controller instances
type RateControllers struct {
	Health         *HealthController
	Rates          *RateController
	Calculation    *CalculationController
	Administration *AdministrationController
}

// NewRateControllers creates and initializes the rate service controllers
func NewRateControllers(services *services.RateServices, db Pinger) *RateControllers {
	return &RateControllers{
		Health:         NewHealthController("ratesvc", db),
		Rates:          NewRateController(services),
		Calculation:    NewCalculationController(services),
		Administration: NewAdministrationController(services),
	}
}

// LogControllers holds the log service controller instances
type LogControllers struct {
	Health *HealthController
	Logs   *LogController
	Auth   *AuthController
}

// NewLogControllers creates and initializes the log service controllers.
// provider may be nil when operator login is not configured.
func NewLogControllers(services *services.LogServices, db Pinger, provider authenticator.Provider) *LogControllers {
	return &LogControllers{
		Health: NewHealthController("logsvc", db),
		Logs:   NewLogController(services),
		Auth:   NewAuthController(provider),
	}
}
