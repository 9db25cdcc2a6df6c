// Package tui provides terminal UI components including SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/boloball/internal/config"
	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/multiplayer"
	"github.com/vovakirdan/boloball/internal/registry"
	"github.com/vovakirdan/boloball/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.boloball/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// EventBuffer is the per-session event queue size.
	EventBuffer int
}

// SSHServerConfigFrom extracts the SSH settings from the loaded config.
func SSHServerConfigFrom(cfg config.BoloConfig) SSHServerConfig {
	return SSHServerConfig{
		Address:     cfg.Server.SSHAddress,
		HostKeyPath: cfg.Server.HostKeyPath,
		IdleTimeout: cfg.Server.IdleTimeout,
		EventBuffer: cfg.Server.EventBuffer,
	}
}

// SSHServer wraps a Wish SSH server. Every SSH session gets its own
// Bubble Tea program and a coordinator session for online play.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	coordinator *multiplayer.Coordinator
	sessions    *multiplayer.SessionRegistry
	logger      *log.Logger
}

// NewSSHServer creates a new SSH server. The coordinator and session
// registry may be shared with other front ends; store may be nil.
func NewSSHServer(
	cfg SSHServerConfig,
	coordinator *multiplayer.Coordinator,
	sessions *multiplayer.SessionRegistry,
	store *storage.Store,
	logger *log.Logger,
) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "boloball-ssh",
		})
	}

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		coordinator: coordinator,
		sessions:    sessions,
		logger:      logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".boloball", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		Seed:    time.Now().UnixNano(),
	}

	session := multiplayer.NewChannelSession(multiplayer.NewSessionID(), s.config.EventBuffer)
	s.sessions.Register(session)
	s.logger.Debug("session registered", "user", sshSession.User(), "session", session.ID())

	go func() {
		<-sshSession.Context().Done()
		s.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
		s.sessions.Unregister(session.ID())
		session.Close()
	}()

	model := NewSessionModel(s.store, cfg, session, s.coordinator)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("tui: ssh server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionEventMsg carries a coordinator event into the Bubble Tea loop.
type sessionEventMsg struct {
	event multiplayer.SessionEvent
}

// waitForEvent returns a command that waits for the next coordinator event.
// It yields nil once the session closes.
func waitForEvent(session *multiplayer.ChannelSession) tea.Cmd {
	if session == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case evt := <-session.Events():
			return sessionEventMsg{event: evt}
		case <-session.Done():
			return nil
		}
	}
}

// sessionScreen is the screen a SessionModel is showing.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenLocal
	screenOnline
	screenScoreboard
)

// SessionModel manages the full session flow: menu -> game -> menu.
// This is the top-level model used for SSH sessions. It owns the only
// reader of the session's event queue and hands events to the online view.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	session     *multiplayer.ChannelSession
	coordinator MessageSender
	screen      sessionScreen
	menu        MenuModel
	local       Model
	online      OnlineModel
	scoreboard  ScoreboardModel
	quitting    bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	session *multiplayer.ChannelSession,
	coordinator MessageSender,
) SessionModel {
	return SessionModel{
		store:       store,
		config:      cfg,
		session:     session,
		coordinator: coordinator,
		menu:        NewMenuModel(store, cfg).WithOnline(session != nil && coordinator != nil),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), waitForEvent(m.session))
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if evt, ok := msg.(sessionEventMsg); ok {
		next := waitForEvent(m.session)
		if m.screen != screenOnline {
			return m, next
		}
		updated, cmd := m.online.Update(evt.event)
		if om, ok := updated.(OnlineModel); ok {
			m.online = om
		}
		return m, tea.Batch(cmd, next)
	}

	switch m.screen {
	case screenLocal:
		return m.updateLocal(msg)
	case screenOnline:
		return m.updateOnline(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

// returnToMenu rebuilds the menu so high scores are fresh.
func (m SessionModel) returnToMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.store, m.config).WithOnline(m.session != nil && m.coordinator != nil)
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// The menu's tea.Quit is dropped; the session switches screens instead.
	if m.menu.WantsScoreboard() {
		m.scoreboard = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	m.config = m.menu.Config()
	if m.menu.Mode() == multiplayer.MatchModeOnline {
		m.online = NewOnlineModel(selected.GameID, m.session.ID(), m.coordinator, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenOnline
		return m, m.online.Init()
	}

	game, err := registry.Create(selected.GameID)
	if err != nil {
		// Shouldn't happen since menu only shows registered games
		return m.returnToMenu()
	}
	m.config.Seed = time.Now().UnixNano()
	m.local = NewModel(game, m.store, m.config)
	m.screen = screenLocal
	return m, m.local.Init()
}

// updateLocal handles updates when playing hot seat.
func (m SessionModel) updateLocal(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.local.Update(msg)
	if local, ok := newModel.(Model); ok {
		m.local = local
	}

	if m.local.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.local.BackToMenu() {
		return m.returnToMenu()
	}
	return m, cmd
}

// updateOnline handles updates during matchmaking and online matches.
func (m SessionModel) updateOnline(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.online.Update(msg)
	if online, ok := newModel.(OnlineModel); ok {
		m.online = online
	}

	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.online.BackToMenu() {
		return m.returnToMenu()
	}
	return m, cmd
}

// updateScoreboard handles updates on the scoreboard screen.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.returnToMenu()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenLocal:
		return m.local.View()
	case screenOnline:
		return m.online.View()
	case screenScoreboard:
		return m.scoreboard.View()
	}
	return m.menu.View()
}
