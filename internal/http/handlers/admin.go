package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/gaming-haven/internal/http/requestutil"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/poller"
	"github.com/preston-bernstein/gaming-haven/internal/timeutil"
)

// AdminHandler exposes admin-only endpoints (on-demand collection backup).
type AdminHandler struct {
	writer poller.BackupWriter
	source poller.CollectionSource
	token  string
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(writer poller.BackupWriter, source poller.CollectionSource, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		writer: writer,
		source: source,
		token:  token,
		logger: logger,
		now:    time.Now,
	}
}

// Backup writes the collection backup for ?date= (defaults to today, UTC).
// Guarded by the admin bearer token; returns 401 if missing or invalid.
func (h *AdminHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.writer == nil || h.source == nil {
		writeError(w, r, http.StatusServiceUnavailable, "backups not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = timeutil.Today(h.now())
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		logging.Warn(logger, "admin backup invalid date", slog.String("date", date))
		writeError(w, r, http.StatusBadRequest, "invalid date format", logger)
		return
	}

	games := h.source.Games()
	if err := h.writer.WriteCollectionBackup(r.Context(), date, games); err != nil {
		logging.Warn(logger, "admin backup write failed",
			slog.String("date", date),
			slog.Int(logging.FieldCount, len(games)),
			slog.Any("err", err),
		)
		writeError(w, r, http.StatusInternalServerError, "failed to write backup", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":   date,
		"count":  len(games),
		"status": "ok",
	}, logger)
	logging.Info(logger, "admin backup written",
		slog.String("date", date),
		slog.Int(logging.FieldCount, len(games)),
	)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
