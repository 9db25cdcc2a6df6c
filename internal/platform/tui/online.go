package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/games/boloball"
	"github.com/vovakirdan/boloball/internal/multiplayer"
)

// OnlineState represents the current state of the online flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host, Join or Quick match
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateQuickWaiting                     // Queued for a quick match
	OnlineStateInMatch                          // In active match
	OnlineStateMatchEnded                       // Match has ended
)

const joinCodeLen = multiplayer.JoinCodeLen

// MessageSender delivers messages to the match coordinator.
type MessageSender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// OnlineModel drives matchmaking and the in-match board for one session.
// Coordinator events are delivered through Update by the owning model.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	keyMapper   *KeyMapper
	gameID      string
	sessionID   multiplayer.SessionID
	coordinator MessageSender

	lobbyCode     string
	joinCodeInput string
	errMsg        string

	matchID  multiplayer.MatchID
	side     core.PlayerID
	snapshot *boloball.BoardSnapshot
	seq      uint64
	notice   string
	screen   *core.Screen
	ended    *multiplayer.MatchEndedEvent

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates a new online model for the given variant.
func NewOnlineModel(
	gameID string,
	sessionID multiplayer.SessionID,
	coordinator MessageSender,
	width, height int,
) OnlineModel {
	return OnlineModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
		gameID:      gameID,
		sessionID:   sessionID,
		coordinator: coordinator,
		screen:      core.NewScreen(width, height),
	}
}

// Init initializes the model.
func (m OnlineModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses and coordinator events.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
	case multiplayer.WaitingForOpponentEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateQuickWaiting
	case multiplayer.LobbyJoinedEvent:
		m.side = msg.Side
	case multiplayer.LobbyErrorEvent:
		m.errMsg = msg.Message
		switch m.state {
		case OnlineStateJoinWaiting:
			m.state = OnlineStateJoinEnterCode
		case OnlineStateQuickWaiting, OnlineStateHostWaiting:
			m.state = OnlineStateChooseMode
		}
	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.lobbyCode = msg.Code
		m.snapshot = nil
		m.seq = 0
		m.notice = ""
		m.errMsg = ""
		m.state = OnlineStateInMatch
	case multiplayer.SnapshotEvent:
		if msg.MatchID != m.matchID || msg.Seq <= m.seq {
			return m, nil
		}
		if snap, ok := msg.Snapshot.(boloball.BoardSnapshot); ok {
			m.snapshot = &snap
			m.seq = msg.Seq
		}
	case multiplayer.NoticeEvent:
		if msg.MatchID == m.matchID {
			m.notice = msg.Message
		}
	case multiplayer.MatchEndedEvent:
		ended := msg
		m.ended = &ended
		m.state = OnlineStateMatchEnded
	}
	return m, nil
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting, OnlineStateQuickWaiting:
		return m.handleWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	case OnlineStateInMatch:
		return m.handleMatchKey(msg)
	case OnlineStateMatchEnded:
		return m.handleEndedKey(msg)
	}

	return m, nil
}

// leave releases whatever the session holds on the coordinator.
func (m OnlineModel) leave() {
	switch m.state {
	case OnlineStateHostWaiting, OnlineStateQuickWaiting:
		m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.sessionID, Code: m.lobbyCode})
	case OnlineStateJoinWaiting:
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{SessionID: m.sessionID, Code: m.joinCodeInput})
	case OnlineStateInMatch:
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.sessionID, MatchID: m.matchID})
	}
}

func (m OnlineModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "H", "1":
		m.errMsg = ""
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
	case "j", "J", "2":
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.errMsg = ""
	case "m", "M", "3":
		m.errMsg = ""
		m.coordinator.Send(multiplayer.QuickMatchMsg{
			SessionID: m.sessionID,
			GameID:    m.gameID,
		})
	case "esc", "b":
		m.backToMenu = true
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineModel) handleWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.leave()
		m.state = OnlineStateChooseMode
		m.lobbyCode = ""
	case "q":
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc":
		m.state = OnlineStateChooseMode
		return m, nil
	case "enter":
		if len(m.joinCodeInput) == joinCodeLen {
			m.state = OnlineStateJoinWaiting
			m.errMsg = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Codes use the base32 alphabet: A-Z and 2-7
		if len(key) == 1 && len(m.joinCodeInput) < joinCodeLen {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '2' && c[0] <= '7') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.leave()
		m.state = OnlineStateJoinEnterCode
	}
	return m, nil
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.leave()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		// Leaving forfeits; the coordinator answers with MatchEndedEvent.
		m.leave()
		m.backToMenu = true
	case action.IsMove():
		m.coordinator.Send(multiplayer.PlayerIntentMsg{
			SessionID: m.sessionID,
			Action:    action,
		})
	}
	return m, nil
}

func (m OnlineModel) handleEndedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "b":
		m.backToMenu = true
	case "r":
		m.ended = nil
		m.snapshot = nil
		m.state = OnlineStateChooseMode
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.viewChooseMode()
	case OnlineStateHostWaiting:
		return m.viewHostWaiting()
	case OnlineStateJoinEnterCode:
		return m.viewJoinEnterCode()
	case OnlineStateJoinWaiting:
		return m.viewLines("CONNECTING",
			fmt.Sprintf("Joining game: %s", m.joinCodeInput),
			"Please wait...",
			"Esc: Cancel")
	case OnlineStateQuickWaiting:
		return m.viewLines("QUICK MATCH",
			"Waiting for 2nd player.",
			"Esc: Cancel  |  Q: Quit")
	case OnlineStateInMatch:
		return m.viewMatch()
	case OnlineStateMatchEnded:
		return m.viewMatchEnded()
	}
	return ""
}

func (m OnlineModel) viewLines(title string, lines ...string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")
	for _, l := range lines {
		b.WriteString(centerText(l, m.width))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m OnlineModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ONLINE BOLOBALL", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose an option:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a game", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a game", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[M] Quick match", m.width))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.errMsg), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineModel) viewHostWaiting() string {
	return m.viewLines("HOSTING GAME",
		"Share this code with your opponent:",
		fmt.Sprintf("[ %s ]", m.lobbyCode),
		"Waiting for 2nd player.",
		"Esc: Cancel  |  Q: Quit")
}

func (m OnlineModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN GAME", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the game code:", m.width))
	b.WriteString("\n\n")

	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < joinCodeLen {
		codeDisplay += "_" + strings.Repeat(" ", joinCodeLen-1-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.errMsg), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

// sideName names the player's color.
func sideName(p core.PlayerID) string {
	if p == core.Player2 {
		return "Blue"
	}
	return "Red"
}

func (m OnlineModel) viewMatch() string {
	m.screen.Clear()
	if m.snapshot == nil {
		boloball.RenderSnapshot(m.screen, boloball.BoardSnapshot{})
	} else {
		snap := *m.snapshot
		if m.notice != "" {
			snap.Message = m.notice
		}
		boloball.RenderSnapshot(m.screen, snap)
	}

	footer := fmt.Sprintf("You are the %s Player.  A/D: move  S/Space: kick  Esc: forfeit", sideName(m.side))
	if m.snapshot != nil && boloball.PlayerOf(m.snapshot.Active) != m.side {
		footer = fmt.Sprintf("You are the %s Player.  Waiting for opponent...", sideName(m.side))
	}
	return RenderScreen(m.screen) + "\n" + centerText(footer, m.width)
}

func (m OnlineModel) viewMatchEnded() string {
	title := "MATCH ENDED"
	lines := []string{}
	if m.ended != nil {
		lines = append(lines, m.ended.Reason.String())
		switch {
		case m.ended.Reason == multiplayer.MatchEndReasonHostLeft:
		case m.ended.Winner == core.NoPlayer:
			lines = append(lines, fmt.Sprintf("Tie at %d", m.ended.Score1))
		case m.ended.Winner == m.side:
			title = "YOU WIN"
			lines = append(lines, fmt.Sprintf("Red %d  -  %d Blue", m.ended.Score1, m.ended.Score2))
		default:
			title = "YOU LOSE"
			lines = append(lines, fmt.Sprintf("Red %d  -  %d Blue", m.ended.Score1, m.ended.Score2))
		}
	}
	lines = append(lines, "Enter: Menu  |  R: Play again  |  Q: Quit")
	return m.viewLines(title, lines...)
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}

// MatchID returns the current or last match ID.
func (m OnlineModel) MatchID() multiplayer.MatchID {
	return m.matchID
}

// Side returns which seat this session plays.
func (m OnlineModel) Side() core.PlayerID {
	return m.side
}

// LobbyCode returns the lobby code.
func (m OnlineModel) LobbyCode() string {
	return m.lobbyCode
}

// Snapshot returns the latest board, or nil before the first one arrives.
func (m OnlineModel) Snapshot() *boloball.BoardSnapshot {
	return m.snapshot
}

// Notice returns the last announcement received during the match.
func (m OnlineModel) Notice() string {
	return m.notice
}
