package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/boloball/internal/registry"
	"github.com/vovakirdan/boloball/internal/storage"
)

const (
	minWidthForSidebar = 100
	sidebarWidth       = 26
	maxScoreRows       = 100
	dateLayout         = "Jan 02 15:04"
)

// scoreView is one of the tables the scoreboard can show.
type scoreView int

const (
	viewTopScores scoreView = iota
	viewHistory
	viewStats
	numScoreViews
)

func (v scoreView) columns() []table.Column {
	switch v {
	case viewHistory:
		return []table.Column{
			{Title: "Board", Width: 10},
			{Title: "Red", Width: 6},
			{Title: "Blue", Width: 6},
			{Title: "Winner", Width: 7},
			{Title: "Mode", Width: 8},
			{Title: "End", Width: 18},
			{Title: "Date", Width: 13},
		}
	case viewStats:
		return []table.Column{
			{Title: "Board", Width: 10},
			{Title: "Played", Width: 7},
			{Title: "Red", Width: 5},
			{Title: "Blue", Width: 5},
			{Title: "Tie", Width: 5},
			{Title: "Best", Width: 6},
			{Title: "Moves", Width: 6},
			{Title: "Last", Width: 13},
		}
	default:
		return []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Score", Width: 7},
			{Title: "Winner", Width: 7},
			{Title: "Opp", Width: 6},
			{Title: "Mode", Width: 8},
			{Title: "Date", Width: 13},
		}
	}
}

// ScoreboardKeyMap holds the scoreboard bindings.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	View key.Binding
	Back key.Binding
	Quit key.Binding
}

func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.View, k.Back}
}

func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.View, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns the scoreboard bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next board")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("S-tab/←", "prev board")),
		View: key.NewBinding(key.WithKeys("h", "v"), key.WithHelp("h", "scores/history/stats")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows winning scores per board, the recent match
// history, or per-board totals.
type ScoreboardModel struct {
	variants []registry.GameInfo
	selected int
	view     scoreView
	store    *storage.Store
	rows     []table.Row
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int

	standalone bool
	quitting   bool
	back       bool
}

// NewScoreboardModel builds the scoreboard. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		variants: registry.List(),
		store:    store,
		keys:     DefaultScoreboardKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
	m.refresh()
	return m
}

func (m ScoreboardModel) variantID() string {
	if len(m.variants) == 0 {
		return ""
	}
	return m.variants[m.selected].ID
}

func shortTitle(title string) string {
	return strings.TrimPrefix(title, "BoloBall: ")
}

// refresh reloads rows for the current view and rebuilds the table.
func (m *ScoreboardModel) refresh() {
	m.rows = m.loadRows()

	height := max(m.height-8, 3)
	m.table = table.New(
		table.WithColumns(m.view.columns()),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("52")).
		Bold(false)
	m.table.SetStyles(s)
}

// loadRows queries the store. Errors show as an empty table.
func (m ScoreboardModel) loadRows() []table.Row {
	if m.store == nil {
		return nil
	}

	var rows []table.Row
	switch m.view {
	case viewHistory:
		matches, err := m.store.RecentMatches("", maxScoreRows)
		if err != nil {
			return nil
		}
		for _, r := range matches {
			rows = append(rows, table.Row{
				r.GameID,
				strconv.Itoa(r.Score1),
				strconv.Itoa(r.Score2),
				r.Winner,
				r.Mode,
				r.EndReason,
				r.CreatedAt.Format(dateLayout),
			})
		}

	case viewStats:
		stats, err := m.store.AllVariantStats()
		if err != nil {
			return nil
		}
		for _, v := range m.variants {
			st, ok := stats[v.ID]
			if !ok {
				continue
			}
			rows = append(rows, table.Row{
				v.ID,
				strconv.Itoa(st.Matches),
				strconv.Itoa(st.RedWins),
				strconv.Itoa(st.BlueWins),
				strconv.Itoa(st.Ties),
				strconv.Itoa(st.HighScore),
				fmt.Sprintf("%.1f", st.AvgMoves),
				st.LastPlayed.Format(dateLayout),
			})
		}

	default:
		id := m.variantID()
		if id == "" {
			return nil
		}
		scores, err := m.store.TopScores(id, maxScoreRows)
		if err != nil {
			return nil
		}
		for i, s := range scores {
			rows = append(rows, table.Row{
				fmt.Sprintf("#%d", i+1),
				strconv.Itoa(s.Score),
				s.Winner,
				strconv.Itoa(s.Opponent),
				s.Mode,
				s.CreatedAt.Format(dateLayout),
			})
		}
	}
	return rows
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.back = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.View):
			m.view = (m.view + 1) % numScoreViews
			m.refresh()
			return m, nil

		case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
			if n := len(m.variants); n > 0 && m.view == viewTopScores {
				step := 1
				if key.Matches(msg, m.keys.Prev) {
					step = n - 1
				}
				m.selected = (m.selected + step) % n
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ScoreboardModel) title() string {
	switch m.view {
	case viewHistory:
		return "MATCH HISTORY"
	case viewStats:
		return "BOARD STATS"
	}
	if len(m.variants) == 0 {
		return "HIGH SCORES"
	}
	return "HIGH SCORES - " + m.variants[m.selected].Title
}

func (m ScoreboardModel) View() string {
	if m.quitting || (m.back && m.standalone) {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var body string
	switch {
	case m.view != viewTopScores:
		body = centerText(m.renderTable(), m.width)
	case m.width >= minWidthForSidebar:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.renderTable())
	default:
		body = m.renderSelector() + centerText(m.renderTable(), m.width)
	}

	return titleStyle.Render(centerText(m.title(), m.width)) + "\n\n" +
		body + "\n" +
		helpStyle.Render(m.help.View(m.keys))
}

// renderSidebar lists the boards with the selected one highlighted.
func (m ScoreboardModel) renderSidebar() string {
	var b strings.Builder
	b.WriteString("Boards\n")
	b.WriteString(strings.Repeat("─", sidebarWidth-4) + "\n")

	limit := sidebarWidth - 6
	for i, v := range m.variants {
		name := shortTitle(v.Title)
		if len(name) > limit {
			name = name[:limit-1] + "…"
		}
		if i == m.selected {
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render("▸ " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1).
		Render(b.String())
}

// renderSelector shows the selected board on narrow terminals.
func (m ScoreboardModel) renderSelector() string {
	if len(m.variants) == 0 {
		return ""
	}
	name := shortTitle(m.variants[m.selected].Title)
	return centerText("◂ "+name+" ▸", m.width) + "\n\n"
}

func (m ScoreboardModel) renderTable() string {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.rows) == 0 {
		empty := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
		return frame.Render(empty.Render("No matches recorded yet.\nFinish a game to set a high score!"))
	}
	return frame.Render(m.table.View())
}

// IsGoingBack reports whether the player left with Back.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.back
}

// IsQuitting reports whether the player asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scoreboard as its own program.
// goBack is true when the player pressed Back rather than quit.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)
	model.standalone = true

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.back, nil
}
