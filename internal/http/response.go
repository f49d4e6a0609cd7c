package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack/internal/core"
	flog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// errorBody is the shape of every non-2xx response.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps a ledger error to its HTTP status. Unexpected errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: verr.Fields()})
	case errors.Is(err, ports.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, ports.ErrDuplicateBudget):
		writeErrorMessage(w, http.StatusConflict, ports.ErrDuplicateBudget.Error())
	default:
		flog.NewStructuredLogger(flog.FromContext(r.Context())).
			LogError(r.Context(), "Request failed", err, op, nil)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}
