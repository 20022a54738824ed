package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/threatlens/authcore/internal/repositories"
)

// errorResponse is the wire shape of every error payload
type errorResponse struct {
	Error       string   `json:"error"`
	UnknownKeys []string `json:"unknown_keys,omitempty"`
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logrus.WithError(err).Error("failed to encode response")
		}
	}
}

// writeError maps a service error to the HTTP surface:
// ValidationError -> 400 with offending keys, ErrNotFound -> 404,
// anything else -> 500 with a generic message (details stay in the log).
func writeError(w http.ResponseWriter, err error) {
	var verr *repositories.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:       verr.Message,
			UnknownKeys: verr.UnknownKeys,
		})
		return
	}

	if errors.Is(err, repositories.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	logrus.WithError(err).Error("internal error")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// decodeJSON decodes the request body into v, rejecting unknown fields
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return repositories.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
