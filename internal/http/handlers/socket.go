package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
	"github.com/preston-bernstein/gaming-haven/internal/search"
)

// Client message types accepted on /ws/search.
const (
	msgFocus        = "focus"
	msgInput        = "input"
	msgKey          = "key"
	msgSelect       = "select"
	msgClickOutside = "clickOutside"
	msgClear        = "clear"
)

// Server frame types.
const (
	frameState    = "state"
	frameSelected = "selected"
	frameKey      = "key"
	frameError    = "error"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

type clientMessage struct {
	Type  string `json:"type"`
	Query string `json:"query,omitempty"`
	Key   string `json:"key,omitempty"`
	Index int    `json:"index,omitempty"`
}

type serverFrame struct {
	Type      string                    `json:"type"`
	SessionID string                    `json:"sessionId"`
	State     *search.State             `json:"state,omitempty"`
	Result    *domaingames.SearchResult `json:"result,omitempty"`
	Added     *bool                     `json:"added,omitempty"`
	Handled   *bool                     `json:"handled,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

// SearchSocket runs one search controller per websocket connection. Selecting a
// result promotes it into the saved collection.
type SearchSocket struct {
	searcher search.Searcher
	saved    SavedGames
	cfg      search.ControllerConfig
	logger   *slog.Logger
	metrics  *metrics.Recorder
	upgrader websocket.Upgrader
}

// NewSearchSocket builds the websocket handler. cfg supplies debounce and limits;
// its callbacks are replaced per session.
func NewSearchSocket(searcher search.Searcher, saved SavedGames, cfg search.ControllerConfig, logger *slog.Logger, recorder *metrics.Recorder) *SearchSocket {
	return &SearchSocket{
		searcher: searcher,
		saved:    saved,
		cfg:      cfg,
		logger:   logger,
		metrics:  recorder,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type socketSession struct {
	id     string
	conn   *websocket.Conn
	send   chan serverFrame
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// ServeHTTP upgrades the connection and pumps messages until the client disconnects.
func (s *SearchSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(loggerFromContext(r, s.logger), "websocket upgrade failed", "err", err)
		return
	}

	id := uuid.NewString()
	sess := &socketSession{
		id:     id,
		conn:   conn,
		send:   make(chan serverFrame, sendBuffer),
		done:   make(chan struct{}),
		logger: loggerFromContext(r, s.logger).With(logging.FieldSessionID, id),
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cfg := s.cfg
	cfg.Logger = sess.logger
	cfg.Navigate = nil
	cfg.OnSelect = func(result domaingames.SearchResult) {
		added := s.saved != nil && s.saved.Add(result)
		chosen := result
		sess.push(serverFrame{Type: frameSelected, Result: &chosen, Added: &added})
	}
	ctrl := search.NewController(ctx, s.searcher, cfg)
	unsubscribe := ctrl.Subscribe(func(st search.State) {
		sess.push(serverFrame{Type: frameState, State: &st})
	})

	s.metrics.RecordSearchSession(1)
	logging.Info(sess.logger, "search session opened")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		sess.writePump()
	}()

	initial := ctrl.State()
	sess.push(serverFrame{Type: frameState, State: &initial})
	s.readPump(sess, ctrl)

	unsubscribe()
	ctrl.Close()
	sess.close()
	<-writerDone
	_ = conn.Close()

	s.metrics.RecordSearchSession(-1)
	logging.Info(sess.logger, "search session closed")
}

func (s *SearchSocket) readPump(sess *socketSession, ctrl *search.Controller) {
	for {
		var msg clientMessage
		if err := sess.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug(sess.logger, "search session read failed", "err", err)
			}
			return
		}

		switch msg.Type {
		case msgFocus:
			ctrl.Focus()
		case msgInput:
			ctrl.Input(msg.Query)
		case msgKey:
			handled := ctrl.Key(msg.Key)
			sess.push(serverFrame{Type: frameKey, Handled: &handled})
		case msgSelect:
			if _, ok := ctrl.Select(msg.Index); !ok {
				sess.push(serverFrame{Type: frameError, Error: "no result at index"})
			}
		case msgClickOutside:
			ctrl.ClickOutside()
		case msgClear:
			ctrl.Clear()
		default:
			sess.push(serverFrame{Type: frameError, Error: "unknown message type"})
		}
	}
}

// push queues a frame unless the session is closing.
func (sess *socketSession) push(f serverFrame) {
	f.SessionID = sess.id
	select {
	case <-sess.done:
	case sess.send <- f:
	}
}

func (sess *socketSession) close() {
	sess.once.Do(func() { close(sess.done) })
}

func (sess *socketSession) writePump() {
	for {
		select {
		case <-sess.done:
			return
		case f := <-sess.send:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteJSON(f); err != nil {
				logging.Debug(sess.logger, "search session write failed", "err", err)
				sess.close()
				return
			}
		}
	}
}
