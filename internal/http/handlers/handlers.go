package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"strings"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/poller"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
	"github.com/preston-bernstein/gaming-haven/internal/search"
)

const catalogUnavailable = "catalog unavailable"

// SavedGames is the collection surface the HTTP layer needs.
type SavedGames interface {
	Hydrated() bool
	Games() []domaingames.SavedGame
	Find(id string) (domaingames.SavedGame, bool)
	IsSaved(id string) bool
	Add(result domaingames.SearchResult) bool
	Remove(id string)
	Clear()
	FilteredAndSorted(filter domaingames.FilterType) []domaingames.SavedGame
}

// Handler serves health, catalog and collection routes.
type Handler struct {
	saved    SavedGames
	searcher search.Searcher
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil when no poller runs.
func NewHandler(saved SavedGames, searcher search.Searcher, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		saved:    saved,
		searcher: searcher,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness: the collection has hydrated and the warm-up poller is healthy.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.saved != nil && !h.saved.Hydrated() {
		writeError(w, r, nethttp.StatusServiceUnavailable, "collection not hydrated", h.logger)
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Search returns catalog matches for ?q=. Queries shorter than two characters yield no results.
func (h *Handler) Search(w nethttp.ResponseWriter, r *nethttp.Request) {
	query := r.URL.Query().Get("q")
	limit, ok := queryLimit(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid limit", h.logger)
		return
	}

	results, err := h.searcher.Search(r.Context(), query, limit)
	if err != nil {
		h.catalogError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"query":   strings.TrimSpace(query),
		"results": results,
	}, h.logger)
}

// Popular returns the suggestions shown for an empty query.
func (h *Handler) Popular(w nethttp.ResponseWriter, r *nethttp.Request) {
	limit, ok := queryLimit(r)
	if !ok {
		writeError(w, r, nethttp.StatusBadRequest, "invalid limit", h.logger)
		return
	}

	results, err := h.searcher.Popular(r.Context(), limit)
	if err != nil {
		h.catalogError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"results": results}, h.logger)
}

// NotFound is the router fallback.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed is the router fallback for known paths.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}

func (h *Handler) catalogError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	logger := loggerFromContext(r, h.logger)
	if r.Context().Err() != nil {
		logging.Debug(logger, "catalog request cancelled by client")
		writeError(w, r, nethttp.StatusServiceUnavailable, "request cancelled", h.logger)
		return
	}
	logging.Warn(logger, "catalog request failed", "err", err, "catalog_unavailable", errors.Is(err, providers.ErrCatalogUnavailable))
	writeError(w, r, nethttp.StatusBadGateway, catalogUnavailable, h.logger)
}
