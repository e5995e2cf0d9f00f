package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/splitvault/splitvault/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// authenticate requires a valid Bearer access token and puts the user id
// into the request context.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.writeError(r.Context(), w, common.ErrUnauthorized)
			return
		}

		userID, err := h.users.VerifyAccessToken(token)
		if err != nil {
			h.writeError(r.Context(), w, common.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}
