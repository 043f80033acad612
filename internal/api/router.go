package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(h *HandlerProvider) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.FindUserHandler)
		r.Route("/{userId}", func(r chi.Router) {
			r.Get("/", h.GetUserHandler)
			r.Put("/", h.JoinHandler)
			r.Delete("/online", h.LeaveHandler)
			r.Get("/messages", h.MessagesHandler)
			r.Post("/prompts/redeem", h.RedeemPromptHandler)
		})
	})

	r.Get("/console/messages", h.MessagesHandler)
	r.Get("/leaderboard", h.LeaderboardHandler)
	r.Post("/transactions", h.TransactionHandler)
	r.Post("/chat/{userId}", h.ChatHandler)

	return r
}
