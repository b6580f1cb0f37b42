package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tourforge/pano360/internal/domain"
)

// ErrorResponse is the envelope returned on every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code plus the
// human-readable message shown by the editor frontend.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeServiceError maps a service error onto an HTTP status and error
// code via its domain sentinel. Unknown errors become a generic 500 — the
// request logger already has the details.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", userMessage(err, domain.ErrNotFound, "Tour no encontrado"))
	case errors.Is(err, domain.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, "invalid_slug", userMessage(err, domain.ErrInvalidSlug, "Carpeta del tour inválida"))
	case errors.Is(err, domain.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "unsupported_format", userMessage(err, domain.ErrUnsupportedFormat, "Formato no soportado. Usa JPG, PNG o WEBP"))
	case errors.Is(err, domain.ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, "invalid_payload", userMessage(err, domain.ErrInvalidPayload, "JSON inválido"))
	case errors.Is(err, domain.ErrMissingAttachment):
		writeError(w, http.StatusBadRequest, "missing_attachment", userMessage(err, domain.ErrMissingAttachment, "Debes adjuntar una fotografía 360"))
	default:
		writeError(w, http.StatusInternalServerError, "internal", "Error interno del servidor")
	}
}

// userMessage extracts the human-readable tail from a wrapped sentinel
// error. Services attach the user-facing message after the sentinel, e.g.
// "service.TourService.Create: invalid slug: Debes indicar un nombre..."
// → "Debes indicar un nombre...". Falls back when no tail was attached.
func userMessage(err error, sentinel error, fallback string) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		if tail := msg[i+len(marker):]; tail != "" {
			return tail
		}
	}
	return fallback
}
