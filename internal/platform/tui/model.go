package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/games/boloball"
	"github.com/vovakirdan/boloball/internal/multiplayer"
	"github.com/vovakirdan/boloball/internal/registry"
	"github.com/vovakirdan/boloball/internal/storage"
)

// hotSeatSession names both seats of a local game in match history.
const hotSeatSession = "local"

// Model is the Bubble Tea model for a hot-seat game: both colors share
// one keyboard and every key press goes to the player to move.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	standalone bool // Back quits the program instead of returning to a menu
	started    time.Time
	quitting   bool
	backToMenu bool
	saved      bool // Whether the result has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		started:   time.Now(),
	}
}

// Init starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input. Each key press is one move.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	frame := core.NewInputFrame()
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		m.quitting = true
		return m, tea.Quit
	}

	state := m.game.State()
	switch {
	case frame.Has(core.ActionBack):
		m.backToMenu = true
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case frame.Has(core.ActionRestart) && state.GameOver:
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.started = time.Now()
		m.saved = false
		return m, nil
	}

	result := m.game.Step(frame)
	if result.State.GameOver && !m.saved {
		m.saveResult(result.State)
		m.saved = true
	}

	return m, nil
}

// saveResult records a finished hot-seat game.
func (m Model) saveResult(state core.GameState) {
	if m.store == nil {
		return
	}
	moves := 0
	if bg, ok := m.game.(*boloball.Game); ok {
		moves = bg.Moves()
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveMatch(storage.MatchRecord{
		MatchID:        string(multiplayer.NewMatchID()),
		GameID:         m.game.ID(),
		Mode:           multiplayer.MatchModeHotSeat.String(),
		Player1Session: hotSeatSession,
		Player2Session: hotSeatSession,
		Score1:         state.Score1,
		Score2:         state.Score2,
		Winner:         storage.WinnerLabel(state.Winner),
		EndReason:      multiplayer.MatchEndReasonCompleted.String(),
		Moves:          moves,
		Duration:       int(time.Since(m.started) / time.Second),
	})
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".boloball", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)

	footer := "A/D: move  S/Space: kick  Esc: back  Q: quit"
	if m.game.State().GameOver {
		footer = "R: new board  Esc: back  Q: quit"
	}
	return RenderScreen(m.screen) + "\n" + centerText(footer, m.screen.Width())
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone hot-seat game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
