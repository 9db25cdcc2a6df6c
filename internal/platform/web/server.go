// Package web serves BoloBall to browsers over websockets. Connections are
// paired in arrival order through the coordinator's quick-match queue.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"

	"github.com/vovakirdan/boloball/internal/config"
	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/multiplayer"
	"github.com/vovakirdan/boloball/internal/storage"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 512
)

// Config holds the web server settings.
type Config struct {
	Address        string
	GameID         string   // Variant played by browser sessions
	AllowedOrigins []string // Empty allows any origin
	EventBuffer    int
}

// ConfigFrom extracts the web settings from the loaded config.
func ConfigFrom(cfg config.BoloConfig, gameID string) Config {
	return Config{
		Address:        cfg.Server.WebAddress,
		GameID:         gameID,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		EventBuffer:    cfg.Server.EventBuffer,
	}
}

// Server is the HTTP + websocket front end.
type Server struct {
	config      Config
	router      *way.Router
	upgrader    websocket.Upgrader
	coordinator *multiplayer.Coordinator
	sessions    *multiplayer.SessionRegistry
	store       *storage.Store
	logger      *log.Logger
	conns       sync.WaitGroup
}

// NewServer creates a web server. store may be nil.
func NewServer(
	cfg Config,
	coordinator *multiplayer.Coordinator,
	sessions *multiplayer.SessionRegistry,
	store *storage.Store,
	logger *log.Logger,
) *Server {
	if cfg.GameID == "" {
		cfg.GameID = "standard"
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		config:      cfg,
		coordinator: coordinator,
		sessions:    sessions,
		store:       store,
		logger:      logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", "/play", s.handlePlay)
	s.router.HandleFunc("GET", "/healthz", s.handleHealth)
	s.router.HandleFunc("GET", "/matches/:id", s.handleMatch)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(s.config.AllowedOrigins, r.Header.Get("Origin"))
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.config.Address, "game", s.config.GameID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	s.conns.Wait()
	return nil
}

// handlePlay upgrades the connection and queues the player for a match.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	s.conns.Add(1)
	defer s.conns.Done()

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID(), s.config.EventBuffer)
	s.sessions.Register(session)
	s.logger.Info("player connected", "session", session.ID(), "remote", r.RemoteAddr)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(conn, session)
	}()

	s.coordinator.Send(multiplayer.QuickMatchMsg{SessionID: session.ID(), GameID: s.config.GameID})
	s.readLoop(conn, session)

	s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
	s.sessions.Unregister(session.ID())
	session.Close()
	<-writerDone
	conn.Close() //nolint:errcheck // connection is already finished
	s.logger.Info("player disconnected", "session", session.ID(), "dropped", session.Dropped())
}

// readLoop forwards client intents until the connection fails.
func (s *Server) readLoop(conn *websocket.Conn, session *multiplayer.ChannelSession) {
	conn.SetReadLimit(maxMessage)
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck // reset on every pong
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in Intent
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read failed", "session", session.ID(), "err", err)
			}
			return
		}
		action, ok := core.ParseAction(in.Type)
		if !ok {
			s.logger.Debug("unknown intent", "session", session.ID(), "type", in.Type)
			continue
		}
		s.coordinator.Send(multiplayer.PlayerIntentMsg{SessionID: session.ID(), Action: action})
	}
}

// writeLoop is the only writer on conn.
func (s *Server) writeLoop(conn *websocket.Conn, session *multiplayer.ChannelSession) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt := <-session.Events():
			for _, f := range framesFor(evt) {
				conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // write reports the failure
				if err := conn.WriteJSON(f); err != nil {
					s.logger.Debug("write failed", "session", session.ID(), "err", err)
					conn.Close() //nolint:errcheck // unblocks the reader
					return
				}
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				conn.Close() //nolint:errcheck // unblocks the reader
				return
			}
		case <-session.Done():
			return
		}
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Lobbies  int    `json:"lobbies"`
	Matches  int    `json:"matches"`
	Sessions int    `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Lobbies:  s.coordinator.LobbyCount(),
		Matches:  s.coordinator.MatchCount(),
		Sessions: s.sessions.Count(),
	})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no match storage"})
		return
	}
	id := way.Param(r.Context(), "id")
	rec, err := s.store.MatchByID(id)
	if err != nil {
		s.logger.Error("cannot load match", "match", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cannot load match"})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "match not found"})
		return
	}
	writeJSON(w, http.StatusOK, newMatchResponse(rec))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may be gone
}
