package boloball

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/games/boloball/engine"
)

// Tile is the on-screen form of one board cell.
type Tile struct {
	Glyph rune
	Color core.Color
}

// Glyphs for board cells.
const (
	GlyphBall     = '●'
	GlyphBoth     = '◉'
	GlyphUsed     = '·'
	GlyphObstacle = '█'
	GlyphLeft     = '◀'
	GlyphRight    = '▶'
	GlyphBonus    = '$'
	GlyphPortal   = '@'
	GlyphCursor   = '▼'
)

// TileFor returns the tile for a cell. Row 0 is the home row, where an
// Empty cell marks a ball that has already been kicked.
func TileFor(c engine.Cell, row int) Tile {
	switch c {
	case engine.RedBall:
		return Tile{GlyphBall, core.ColorRed}
	case engine.BlueBall:
		return Tile{GlyphBall, core.ColorBlue}
	case engine.BothBalls:
		return Tile{GlyphBoth, core.ColorMagenta}
	case engine.Obstacle:
		return Tile{GlyphObstacle, core.ColorGray}
	case engine.RedirectLeft:
		return Tile{GlyphLeft, core.ColorYellow}
	case engine.RedirectRight:
		return Tile{GlyphRight, core.ColorYellow}
	case engine.Bonus:
		return Tile{GlyphBonus, core.ColorGreen}
	case engine.Portal:
		return Tile{GlyphPortal, core.ColorCyan}
	}
	if row == 0 {
		return Tile{GlyphUsed, core.ColorGray}
	}
	return Tile{' ', core.ColorDefault}
}

// playerColor returns the cursor color, bright for the player to move.
func playerColor(c engine.Color, active bool) core.Color {
	switch {
	case c == engine.Red && active:
		return core.ColorBrightRed
	case c == engine.Red:
		return core.ColorRed
	case c == engine.Blue && active:
		return core.ColorBrightBlue
	default:
		return core.ColorBlue
	}
}

// BoardSize returns the screen cells needed to draw a rows x cols board.
func BoardSize(rows, cols int) (w, h int) {
	return cols*2 + 3, rows + 5
}

// Render draws the current board.
func (g *Game) Render(dst *core.Screen) {
	RenderSnapshot(dst, g.BoardSnapshot())
}

// renderTooSmall asks for a bigger window, using the short wording when
// the long one would not fit.
func renderTooSmall(dst *core.Screen, w, h int) {
	msg := "Window too small"
	if dst.Width() < utf8.RuneCountInString(msg) {
		msg = "Too small"
	}
	dst.DrawTextCentered(dst.Height()/2, msg, core.ColorYellow)
	dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("need %dx%d", w, h), core.ColorGray)
}

// RenderSnapshot draws a board snapshot centered on dst:
// scores, player cursors, the boxed grid and a status line.
func RenderSnapshot(dst *core.Screen, snap BoardSnapshot) {
	if snap.Rows == 0 {
		dst.DrawTextCentered(dst.Height()/2, "Waiting for board...", core.ColorGray)
		return
	}

	w, h := BoardSize(snap.Rows, snap.Cols)
	if dst.Width() < w || dst.Height() < h {
		renderTooSmall(dst, w, h)
		return
	}

	x0 := (dst.Width() - w) / 2
	y0 := (dst.Height() - h) / 2

	// Scores
	red := fmt.Sprintf("RED %d", snap.RedScore)
	blue := fmt.Sprintf("%d BLUE", snap.BlueScore)
	dst.DrawTextColored(x0, y0, red, playerColor(engine.Red, !snap.Over && snap.Active == engine.Red))
	dst.DrawTextColored(x0+w-len([]rune(blue)), y0, blue, playerColor(engine.Blue, !snap.Over && snap.Active == engine.Blue))

	// Cursors, active player drawn last so it wins a shared column.
	cursorY := y0 + 1
	first, second := engine.Blue, engine.Red
	if snap.Active == engine.Blue {
		first, second = engine.Red, engine.Blue
	}
	for _, c := range []engine.Color{first, second} {
		dst.SetColored(x0+2+snap.Column(c)*2, cursorY, GlyphCursor, playerColor(c, !snap.Over && c == snap.Active))
	}

	dst.DrawBox(core.NewRect(x0, y0+2, w, snap.Rows+2), core.ColorGray)
	for row := 0; row < snap.Rows; row++ {
		for col := 0; col < snap.Cols; col++ {
			t := TileFor(snap.Grid[row][col], row)
			dst.SetColored(x0+2+col*2, y0+3+row, t.Glyph, t.Color)
		}
	}

	status, color := StatusLine(snap)
	dst.DrawTextCentered(y0+h-1, status, color)
}

// StatusLine returns the line shown under the board.
func StatusLine(snap BoardSnapshot) (string, core.Color) {
	if snap.Over {
		switch {
		case snap.RedScore > snap.BlueScore:
			return fmt.Sprintf("Red wins %d to %d", snap.RedScore, snap.BlueScore), core.ColorBrightRed
		case snap.BlueScore > snap.RedScore:
			return fmt.Sprintf("Blue wins %d to %d", snap.BlueScore, snap.RedScore), core.ColorBrightBlue
		default:
			return fmt.Sprintf("Tie at %d", snap.RedScore), core.ColorWhite
		}
	}
	if snap.Message != "" {
		return snap.Message, core.ColorYellow
	}
	if snap.Active == engine.Blue {
		return "Blue to move", core.ColorBrightBlue
	}
	return "Red to move", core.ColorBrightRed
}
