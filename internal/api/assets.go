package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/raidho/internal/apperr"
	"github.com/starford/raidho/internal/assets"
)

// AssetHandler streams model payloads to the browser renderer. It is a
// passthrough over the configured asset provider, so the browser talks
// to one origin regardless of where the models actually live.
type AssetHandler struct {
	provider assets.Provider
}

// NewAssetHandler creates a handler over the given provider.
func NewAssetHandler(provider assets.Provider) *AssetHandler {
	return &AssetHandler{provider: provider}
}

// safeSegment validates that a URL path segment is a plain name with no
// separators or traversal.
func safeSegment(seg string) (string, error) {
	decoded, err := url.PathUnescape(seg)
	if err != nil {
		decoded = seg
	}
	if decoded == "" {
		return "", fmt.Errorf("segment is required")
	}
	cleaned := filepath.Clean(decoded)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid segment: %s", seg)
	}
	return cleaned, nil
}

// ServeModel handles GET /assets/{project}/{file}.
//
//	@Summary		Fetch a model payload
//	@Tags			assets
//	@Produce		octet-stream
//	@Param			project	path	string	true	"Project base path"
//	@Param			file	path	string	true	"Model filename"
//	@Success		200		"GLB payload"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/assets/{project}/{file} [get]
func (h *AssetHandler) ServeModel(w http.ResponseWriter, r *http.Request) {
	project, err := safeSegment(chi.URLParam(r, "project"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	file, err := safeSegment(chi.URLParam(r, "file"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	data, err := h.provider.Model(r.Context(), project, file)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("asset fetch failed",
			slog.String("project", project),
			slog.String("file", file),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("asset fetch failed"))
		return
	}

	w.Header().Set("Content-Type", "model/gltf-binary")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
