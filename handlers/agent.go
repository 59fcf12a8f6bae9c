package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"metarelay/config"
	"metarelay/internal/guid"
	"metarelay/models"
	metadatapkg "metarelay/services/metadata"
)

type agentService interface {
	Search(ctx context.Context, query string, kind guid.Kind, year string) []models.SearchMatch
	Metadata(ctx context.Context, token string) *models.MediaMetadata
}

var _ agentService = (*metadatapkg.Service)(nil)

// AgentHandler serves the media-manager agent protocol: a manifest at the
// root, search, and detail lookup.
type AgentHandler struct {
	Service agentService
	Agent   config.AgentSettings
}

func NewAgentHandler(s agentService, agent config.AgentSettings) *AgentHandler {
	return &AgentHandler{Service: s, Agent: agent}
}

// Manifest describes the gateway and its identifier scheme.
func (h *AgentHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	manifest := models.Manifest{
		Identifier: h.Agent.Identifier,
		Name:       h.Agent.Name,
		Version:    h.Agent.Version,
		Kinds: []models.ManifestKind{
			{Type: "movie", Prefixes: []string{"tmdb-movie-"}},
			{Type: "show", Prefixes: []string{"tmdb-show-"}},
			{Type: "album", Prefixes: []string{"spotify-album-", "google-book-"}},
		},
	}
	writeJSON(w, http.StatusOK, manifest)
}

// Search handles GET /search. A missing query is the caller's fault (400);
// everything else, including an unrecognized type, yields a 200 envelope.
func (h *AgentHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := firstNonEmpty(q.Get("query"), q.Get("title"))
	if query == "" {
		writeJSONError(w, http.StatusBadRequest, "missing required parameter: query")
		return
	}

	kind := guid.ParseKind(q.Get("type"))
	year := strings.TrimSpace(q.Get("year"))

	results := h.Service.Search(r.Context(), query, kind, year)
	writeJSON(w, http.StatusOK, models.SearchContainer{
		Size:       len(results),
		Identifier: h.Agent.Identifier,
		Results:    results,
	})
}

// Metadata handles GET /metadata. The identifier may be a bare token or a
// full URI wrapping one. Unroutable or failed lookups return an empty
// envelope, not an error.
func (h *AgentHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := firstNonEmpty(q.Get("id"), q.Get("ratingKey"), q.Get("guid"))
	if token == "" {
		writeJSONError(w, http.StatusBadRequest, "missing required parameter: id")
		return
	}

	results := []models.MediaMetadata{}
	if md := h.Service.Metadata(r.Context(), token); md != nil {
		results = append(results, *md)
	}
	writeJSON(w, http.StatusOK, models.MetadataContainer{
		Size:       len(results),
		Identifier: h.Agent.Identifier,
		Results:    results,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
