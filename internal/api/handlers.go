package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raidho/internal/apperr"
	"github.com/starford/raidho/internal/index"
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/viewer"
)

// Handler holds API route handlers.
type Handler struct {
	loader   *viewer.Loader
	ctrl     *viewer.Controller
	db       index.EventIndex
	projects []models.Project
}

// NewHandler creates a new Handler. db may be nil when no schedule index
// is configured; schedule and search endpoints then report 404.
func NewHandler(loader *viewer.Loader, ctrl *viewer.Controller, db index.EventIndex, projects []models.Project) *Handler {
	return &Handler{loader: loader, ctrl: ctrl, db: db, projects: projects}
}

// resolveProject maps a project code to its configuration. An empty code
// resolves to the first configured project.
func (h *Handler) resolveProject(code string) (models.Project, error) {
	if code == "" && len(h.projects) > 0 {
		return h.projects[0], nil
	}
	for _, p := range h.projects {
		if p.Code == code {
			return p, nil
		}
	}
	return models.Project{}, apperr.ErrUnknownProject
}

// ListProjects handles GET /api/projects.
//
//	@Summary		List configured projects
//	@Tags			projects
//	@Produce		json
//	@Success		200	{object}	ProjectListResponse
//	@Security		BearerAuth
//	@Router			/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	resp := ProjectListResponse{Projects: make([]ProjectInfo, len(h.projects))}
	for i, p := range h.projects {
		resp.Projects[i] = ProjectInfo{Code: p.Code, DisplayName: p.DisplayName}
	}
	if len(h.projects) > 0 {
		resp.Default = h.projects[0].Code
	}
	writeJSON(w, http.StatusOK, resp)
}

// LoadProject handles POST /api/load. The load runs asynchronously;
// progress and the final state arrive over the SSE stream. Camera
// overrides (elev, azim, dist, roty, tx, ty, tz) are taken from the
// query string and only apply to fixed-camera projects.
//
//	@Summary		Start loading a project's model set and schedule
//	@Tags			projects
//	@Produce		json
//	@Param			project	query		string	false	"Project code (defaults to the first configured project)"
//	@Success		202		{object}	LoadAcceptedResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/load [post]
func (h *Handler) LoadProject(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	project, err := h.resolveProject(q.Get("project"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("unknown project"))
		return
	}
	if err := h.loader.Start(project, q); err != nil {
		if errors.Is(err, apperr.ErrLoadInFlight) {
			writeJSON(w, http.StatusConflict, errorBody("a load is already in progress"))
			return
		}
		slog.Error("load start failed", slog.String("project", project.Code), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusAccepted, LoadAcceptedResponse{Project: project.Code, Status: "loading"})
}

// State handles GET /api/state.
//
//	@Summary		Get the current navigation state
//	@Tags			navigation
//	@Produce		json
//	@Success		200	{object}	StateResponse
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

// NavModel handles POST /api/nav/model/{index} (slider drag, prev/next).
// The index is clamped to the loaded model range.
//
//	@Summary		Show the model at an index
//	@Tags			navigation
//	@Produce		json
//	@Param			index	path		int	true	"Model index"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nav/model/{index} [post]
func (h *Handler) NavModel(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("index must be an integer"))
		return
	}
	h.ctrl.ShowModelAt(i)
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

// NavCell handles POST /api/nav/cell (schedule table cell click).
//
//	@Summary		Navigate via a schedule cell
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NavCellRequest	true	"Clicked cell"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nav/cell [post]
func (h *Handler) NavCell(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeNav(w, r)
	if !ok {
		return
	}
	h.ctrl.CellClick(req.TimelineIndex, req.File)
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

// NavTick handles POST /api/nav/tick (timeline tick click).
//
//	@Summary		Navigate via a timeline tick
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NavCellRequest	true	"Clicked tick"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/nav/tick [post]
func (h *Handler) NavTick(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeNav(w, r)
	if !ok {
		return
	}
	h.ctrl.TickClick(req.TimelineIndex, req.File)
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

func decodeNav(w http.ResponseWriter, r *http.Request) (NavCellRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req NavCellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return req, false
	}
	if req.TimelineIndex < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("timelineIndex must not be negative"))
		return req, false
	}
	return req, true
}

// Autoplay handles POST /api/autoplay.
//
//	@Summary		Toggle timer-driven model advancement
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ToggleRequest	true	"Autoplay state"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/autoplay [post]
func (h *Handler) Autoplay(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeToggle(w, r)
	if !ok {
		return
	}
	h.ctrl.SetAutoplay(req.Enabled)
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

// Rotate handles POST /api/rotate.
//
//	@Summary		Toggle the shared model rotation
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ToggleRequest	true	"Rotation state"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/rotate [post]
func (h *Handler) Rotate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeToggle(w, r)
	if !ok {
		return
	}
	h.ctrl.SetRotate(req.Enabled)
	writeJSON(w, http.StatusOK, h.ctrl.Snapshot())
}

func decodeToggle(w http.ResponseWriter, r *http.Request) (ToggleRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return req, false
	}
	return req, true
}

// Schedule handles GET /api/schedule. Without an explicit project it
// returns the schedule of the currently displayed project.
//
//	@Summary		Get the indexed timeline events of a project
//	@Tags			schedule
//	@Produce		json
//	@Param			project	query		string	false	"Project code"
//	@Success		200		{object}	ScheduleResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/schedule [get]
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusNotFound, errorBody("schedule index not configured"))
		return
	}
	code := r.URL.Query().Get("project")
	if code == "" {
		code = h.ctrl.Snapshot().Project
	}
	if code == "" {
		writeJSON(w, http.StatusNotFound, errorBody("no project loaded"))
		return
	}
	events, err := h.db.Events(code)
	if err != nil {
		slog.Error("schedule query failed", slog.String("project", code), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if events == nil {
		events = []models.TimelineEvent{}
	}
	writeJSON(w, http.StatusOK, ScheduleResponse{Project: code, Events: events})
}

// Search handles GET /api/search over the indexed schedule events.
//
//	@Summary		Search schedule events by member, note, or filename
//	@Tags			schedule
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			project	query		string	false	"Project code"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusNotFound, errorBody("schedule index not configured"))
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	code := r.URL.Query().Get("project")
	if code == "" {
		code = h.ctrl.Snapshot().Project
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.db.Search(code, q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []models.TimelineEvent{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
