package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/boloball/internal/core"
)

// Both seats share one keyboard in hot-seat play, so the bindings do not
// depend on whose turn it is.
var gameKeys = map[string]core.Action{
	"a":      core.ActionLeft,
	"left":   core.ActionLeft,
	"d":      core.ActionRight,
	"right":  core.ActionRight,
	"s":      core.ActionKick,
	"down":   core.ActionKick,
	" ":      core.ActionKick,
	"enter":  core.ActionConfirm,
	"b":      core.ActionBack,
	"esc":    core.ActionBack,
	"r":      core.ActionRestart,
	"q":      core.ActionQuit,
	"ctrl+c": core.ActionQuit,
}

// KeyMapper turns Bubble Tea key messages into game and menu actions.
type KeyMapper struct {
	game map[string]core.Action
	menu map[string]MenuAction
}

// NewKeyMapper returns a mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{game: gameKeys, menu: menuKeys}
}

// MapKey returns the action bound to msg, or ActionNone.
// isQuit is set for the quit keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	action, ok := km.game[msg.String()]
	if !ok {
		return core.ActionNone, false
	}
	return action, action == core.ActionQuit
}

// MapKeyToFrame records the bound action in frame and reports a quit key.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction is what a key does on the menu screen.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionOnline
	MenuActionScoreboard
	MenuActionBack
	MenuActionQuit
)

var menuKeys = map[string]MenuAction{
	"w":      MenuActionUp,
	"k":      MenuActionUp,
	"up":     MenuActionUp,
	"s":      MenuActionDown,
	"j":      MenuActionDown,
	"down":   MenuActionDown,
	"enter":  MenuActionSelect,
	" ":      MenuActionSelect,
	"o":      MenuActionOnline,
	"tab":    MenuActionScoreboard,
	"b":      MenuActionBack,
	"esc":    MenuActionBack,
	"q":      MenuActionQuit,
	"ctrl+c": MenuActionQuit,
}

// MapKeyToMenuAction returns the menu action bound to msg.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return km.menu[msg.String()]
}
