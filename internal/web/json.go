// Package web holds the JSON response helpers shared by the HTTP handlers
// and the auth middleware.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/andela-ekupara/dcman/internal/apperr"
	"github.com/andela-ekupara/dcman/pkg/logger"
)

type errorDetail struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

// Error serializes any error to the single error body shape, taking the
// status code from the error's kind.
func Error(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	JSON(w, e.Kind.Status(), errorBody{Error: errorDetail{Message: e.Msg, Fields: e.Fields}})
}
