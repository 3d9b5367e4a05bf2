package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"kulutus/internal/core"
)

// Every error response carries a JSON body with an "error" field.
type apiErrorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiErrorJSON{Error: message})
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
// Client-caused errors echo their message; anything unclassified is a
// storage failure whose detail stays in the server log.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Storage failure",
			"error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "database error")
	}
}

// formatFixed renders a measurement with a fixed number of decimals.
// A non-finite value means a bug upstream; it must surface as an error
// instead of a malformed string.
func formatFixed(v float64, decimals int) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", errors.New("value is not a finite number")
	}
	return strconv.FormatFloat(v, 'f', decimals, 64), nil
}
