package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/blogem/insurance-rates/models"
	"github.com/blogem/insurance-rates/services"
)

// LogController handles audit log ingestion and queries
type LogController struct {
	services *services.LogServices
}

// NewLogController creates a new log controller
func NewLogController(services *services.LogServices) *LogController {
	return &LogController{
		services: services,
	}
}

// Index handles GET /api/v1/logs?action=&start_datetime=&end_datetime=&user_id=&limit=
func (c *LogController) Index(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseLogFilter(r)
	if errs.HasErrors() {
		writeError(w, http.StatusBadRequest, models.ErrValidation.Error(), errs...)
		return
	}

	entries, err := c.services.Logs.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Ingest handles POST /api/v1/logs with a single event or an array of events
func (c *LogController) Ingest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body: "+err.Error())
		return
	}

	events, err := decodeEvents(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	entries, err := c.services.Logs.Ingest(r.Context(), events)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entries)
}

func decodeEvents(body []byte) ([]models.AuditEvent, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var events []models.AuditEvent
		if err := json.Unmarshal(body, &events); err != nil {
			return nil, err
		}
		return events, nil
	}

	var evt models.AuditEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, err
	}
	return []models.AuditEvent{evt}, nil
}

func parseLogFilter(r *http.Request) (models.LogFilter, models.ValidationErrors) {
	query := r.URL.Query()
	filter := models.LogFilter{Action: models.Action(query.Get("action"))}
	var errs models.ValidationErrors

	for _, bound := range []struct {
		name string
		dst  **models.Timestamp
	}{
		{"start_datetime", &filter.Start},
		{"end_datetime", &filter.End},
	} {
		s := query.Get(bound.name)
		if s == "" {
			continue
		}
		ts, err := models.ParseTimestamp(s)
		if err != nil {
			errs.Add(bound.name, err.Error())
			continue
		}
		*bound.dst = &ts
	}

	if s := query.Get("user_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			errs.Add("user_id", "User ID must be an integer")
		} else {
			filter.UserID = &id
		}
	}

	if s := query.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			errs.Add("limit", "Limit must be a positive integer")
		} else {
			filter.Limit = limit
		}
	}

	return filter, errs
}
