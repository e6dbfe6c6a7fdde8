// Package respond writes JSON responses and maps service errors onto the
// HTTP status codes and the {kind, message} envelope the API exposes.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/moneta-app/moneta/internal/apperr"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err using its classified kind and caller-safe message.
// Unclassified errors become a generic 500.
func Error(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		slog.Error("request failed", "error", err)
	}

	JSON(w, statusFor(kind), errorResponse{Kind: kind, Message: apperr.MessageOf(err)})
}

// BadRequest rejects a malformed request body or parameter.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, errorResponse{Kind: apperr.KindValidation, Message: message})
}
