package core

// Color is a foreground color for a screen cell, resolved to an ANSI
// 256-color code by the terminal renderer.
type Color uint8

// Palette used by the board tiles and HUD.
const (
	ColorDefault Color = iota
	ColorRed
	ColorBrightRed
	ColorBlue
	ColorBrightBlue
	ColorMagenta
	ColorYellow
	ColorGreen
	ColorCyan
	ColorGray
	ColorWhite
)
