package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/common"
)

// writeError maps service errors to status codes. Internal details never
// reach the wire; clients get the sentinel's message only.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, common.ErrDomainValidation):
		status, msg = http.StatusBadRequest, common.ErrDomainValidation.Error()
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status, msg = http.StatusUnauthorized, common.ErrUnauthorized.Error()
	case errors.Is(err, common.ErrNotFound):
		status, msg = http.StatusNotFound, common.ErrNotFound.Error()
	case errors.Is(err, common.ErrAlreadyExists):
		status, msg = http.StatusConflict, common.ErrAlreadyExists.Error()
	default:
		h.logger.Error(ctx, "request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: msg})
}
