// Package api provides HTTP API handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/stringanalyzer/stringsvc/internal/analysis"
	"github.com/stringanalyzer/stringsvc/internal/models"
)

// Version is reported by the health endpoint.
var Version = "dev"

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 100 << 10

// Handler contains all HTTP handlers.
type Handler struct {
	engine *analysis.Engine
}

// NewHandler creates a new handler.
func NewHandler(engine *analysis.Engine) *Handler {
	return &Handler{engine: engine}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.engine.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("Store health check failed")
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
		response["error"] = err.Error()
	} else if n, err := h.engine.Count(r.Context()); err == nil {
		response["strings"] = n
	}

	writeJSON(w, status, response)
}

// CreateString analyzes and stores a new string.
func (h *Handler) CreateString(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, ok := body["value"]
	if !ok {
		writeError(w, http.StatusBadRequest, `Missing "value" field`)
		return
	}

	rec, err := h.engine.Create(r.Context(), value)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// GetString returns the record for the string in the path.
func (h *Handler) GetString(w http.ResponseWriter, r *http.Request) {
	value, ok := pathValue(w, r)
	if !ok {
		return
	}

	rec, err := h.engine.Get(r.Context(), value)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListStrings returns stored strings filtered by query parameters.
func (h *Handler) ListStrings(w http.ResponseWriter, r *http.Request) {
	applied := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			applied[key] = values[0]
		}
	}

	records, err := h.engine.List(r.Context(), models.FilterCriteria(applied))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ListResponse{
		Data:           records,
		Count:          len(records),
		FiltersApplied: applied,
	})
}

// FilterByNaturalLanguage lists strings matching an English query.
func (h *Handler) FilterByNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, `Missing "query" parameter`)
		return
	}

	result, err := h.engine.ListNatural(r.Context(), query)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NaturalLanguageResponse{
		Data:  result.Records,
		Count: len(result.Records),
		InterpretedQuery: models.InterpretedQuery{
			Original:      result.Query,
			ParsedFilters: result.Criteria.Typed(),
		},
	})
}

// DeleteString removes the string in the path.
func (h *Handler) DeleteString(w http.ResponseWriter, r *http.Request) {
	value, ok := pathValue(w, r)
	if !ok {
		return
	}

	if err := h.engine.Delete(r.Context(), value); err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// NotFound handles unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed handles known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// pathValue extracts the string_value segment. chi matches on RawPath
// when the request has one, so the segment may still be escaped.
func pathValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	value := chi.URLParam(r, "string_value")
	if r.URL.RawPath == "" {
		return value, true
	}
	unescaped, err := url.PathUnescape(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid string value in path")
		return "", false
	}
	return unescaped, true
}

func writeEngineError(w http.ResponseWriter, err error) {
	var filterErr *models.InvalidFilterError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, `"value" must be a string`)
	case errors.Is(err, models.ErrDuplicateKey):
		writeError(w, http.StatusConflict, "String already exists")
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "String not found")
	case errors.As(err, &filterErr):
		writeError(w, http.StatusBadRequest, "Invalid query parameters: "+filterErr.Error())
	case errors.Is(err, models.ErrEmptyQuery), errors.Is(err, models.ErrUnparseableQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
