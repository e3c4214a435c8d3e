package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raidho/internal/index"
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/viewer"
)

// NewRouter creates a chi router with all API routes mounted. The GLB
// passthrough is not part of this router; it is mounted at the server
// root so asset URLs in render commands stay auth-free.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(loader *viewer.Loader, ctrl *viewer.Controller, db index.EventIndex, projects []models.Project, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(loader, ctrl, db, projects)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Projects and loading.
	r.Get("/projects", h.ListProjects)
	r.Post("/load", h.LoadProject)

	// Navigation.
	r.Get("/state", h.State)
	r.Post("/nav/model/{index}", h.NavModel)
	r.Post("/nav/cell", h.NavCell)
	r.Post("/nav/tick", h.NavTick)
	r.Post("/autoplay", h.Autoplay)
	r.Post("/rotate", h.Rotate)

	// Schedule.
	r.Get("/schedule", h.Schedule)
	r.Get("/search", h.Search)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
