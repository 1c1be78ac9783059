package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kettleby/habitforge/internal/logger"
)

// decodeAndValidate decodes the request body into req and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error("Failed to decode request", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		log.Warn("Invalid request", "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   ErrMsgValidationFailed,
			"details": FormatValidationError(err),
		})
		return false
	}

	return true
}

// requireQueryParam reads a query parameter, writing a 400 when absent
func requireQueryParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		respondError(w, http.StatusBadRequest, "Missing "+name+" query parameter")
		return "", false
	}
	return value, true
}
