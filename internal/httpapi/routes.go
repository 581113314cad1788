package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/draftwise/draftwise/internal/ws"
)

func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", a.handleHealthz)
	r.Get("/healthz/backend", a.handleBackendHealth)
	r.Get("/champions", a.handleChampions)
	r.Get("/ws", ws.Handler(a.hub, a.log))

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", a.handleCreateDraft)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", a.handleGetDraft)
			r.Put("/teams/{team}/roles/{role}", a.handleAssign)
			r.Delete("/teams/{team}/roles/{role}", a.handleUnassign)
			r.Post("/teams/{team}/bans", a.handleBan)
			r.Delete("/teams/{team}/bans/{key}", a.handleUnban)
			r.Put("/settings", a.handleSettings)
			r.Post("/reset", a.handleReset)
			r.Get("/validation", a.handleValidation)
			r.Post("/prediction", a.handlePrediction)
		})
	})

	return r
}
