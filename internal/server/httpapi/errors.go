package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/roomly/internal/common"
)

type errorResponse struct {
	Message string `json:"message"`
}

// writeError maps service sentinels onto HTTP statuses. Anything unmapped is
// reported as a generic 500 so internal detail never reaches a client.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrDuplicateEmail):
		status, message = http.StatusBadRequest, common.ErrDuplicateEmail.Error()
	case errors.Is(err, common.ErrDuplicatePhone):
		status, message = http.StatusBadRequest, common.ErrDuplicatePhone.Error()
	case errors.Is(err, common.ErrUnsupportedMedia):
		status, message = http.StatusUnsupportedMediaType, common.ErrUnsupportedMedia.Error()
	case errors.Is(err, common.ErrFileTooLarge):
		status, message = http.StatusRequestEntityTooLarge, common.ErrFileTooLarge.Error()
	case errors.Is(err, common.ErrorBadRequest):
		status, message = http.StatusBadRequest, "bad request"
	default:
		a.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, errorResponse{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
