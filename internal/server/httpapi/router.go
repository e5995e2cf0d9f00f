package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the full API surface. Registration, login, refresh, and
// ping are public; everything else requires a Bearer access token.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", h.register)
		r.Post("/sessions", h.login)
		r.Post("/sessions/refresh", h.refresh)
		r.Get("/ping", h.ping)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)

			r.Get("/groups", h.listGroups)
			r.Post("/groups", h.createGroup)
			r.Post("/groups/{groupID}/transactions", h.addTransaction)
			r.Post("/groups/{groupID}/members", h.joinGroup)

			r.Post("/invitations", h.createInvitation)
			r.Post("/invitations/redeem", h.redeemInvitation)

			r.Post("/receipts", h.presignReceiptPut)
			r.Get("/receipts/*", h.presignReceiptGet)
		})
	})

	return r
}
