package handlers

import (
	"encoding/json"
	nethttp "net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
)

const maxBodyBytes = 1 << 20

type savedListResponse struct {
	Filter  domaingames.FilterType  `json:"filter"`
	Filters []domaingames.Toggle    `json:"filters"`
	Games   []domaingames.SavedGame `json:"games"`
}

// ListSaved returns the collection ordered by ?filter= (last-added, newest, oldest).
func (h *Handler) ListSaved(w nethttp.ResponseWriter, r *nethttp.Request) {
	filter := domaingames.ParseFilter(r.URL.Query().Get("filter"))
	controls := domaingames.NewFilterControls(filter, nil)

	writeJSON(w, nethttp.StatusOK, savedListResponse{
		Filter:  controls.Active(),
		Filters: controls.Toggles(),
		Games:   h.saved.FilteredAndSorted(filter),
	}, h.logger)
}

// GetSaved reports whether :id is saved, with the entry when it is.
func (h *Handler) GetSaved(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := gameID(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	game, saved := h.saved.Find(id)
	resp := map[string]any{"id": id, "saved": saved}
	if saved {
		resp["game"] = game
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// AddSaved promotes a search result into the collection.
func (h *Handler) AddSaved(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)

	var result domaingames.SearchResult
	dec := json.NewDecoder(nethttp.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&result); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	result.ID = strings.TrimSpace(result.ID)
	if result.ID == "" || strings.TrimSpace(result.Title) == "" || strings.TrimSpace(result.Slug) == "" {
		writeError(w, r, nethttp.StatusBadRequest, "id, title and slug are required", h.logger)
		return
	}

	if !h.saved.Add(result) {
		logging.Info(logger, "game already saved", logging.FieldGameID, result.ID)
		writeJSON(w, nethttp.StatusOK, map[string]any{"added": false, "reason": "already saved"}, h.logger)
		return
	}

	game, _ := h.saved.Find(result.ID)
	logging.Info(logger, "game saved", logging.FieldGameID, result.ID)
	writeJSON(w, nethttp.StatusCreated, map[string]any{"added": true, "game": game}, h.logger)
}

// RemoveSaved deletes :id. Removing an unsaved id is not an error.
func (h *Handler) RemoveSaved(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, ok := gameID(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	h.saved.Remove(id)
	logging.Info(loggerFromContext(r, h.logger), "game removed", logging.FieldGameID, id)
	w.WriteHeader(nethttp.StatusNoContent)
}

// ClearSaved empties the collection.
func (h *Handler) ClearSaved(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.saved.Clear()
	logging.Info(loggerFromContext(r, h.logger), "collection cleared")
	w.WriteHeader(nethttp.StatusNoContent)
}

func gameID(r *nethttp.Request) (string, bool) {
	id := strings.TrimSpace(httprouter.ParamsFromContext(r.Context()).ByName("id"))
	if id == "" || strings.ContainsAny(id, " \t/") {
		return "", false
	}
	return id, true
}
