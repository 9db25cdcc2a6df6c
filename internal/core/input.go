package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - step one column left
	ActionRight          // D, Right arrow - step one column right
	ActionKick           // S, Down arrow, Space - kick the ball below
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R - new board after game over
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionKick:
		return "Kick"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseAction maps a wire intent name to an action.
// It accepts the browser protocol names ("left", "right", "down") and "kick".
func ParseAction(s string) (Action, bool) {
	switch s {
	case "left":
		return ActionLeft, true
	case "right":
		return ActionRight, true
	case "down", "kick":
		return ActionKick, true
	default:
		return ActionNone, false
	}
}

// IsMove reports whether the action changes game state.
func (a Action) IsMove() bool {
	return a == ActionLeft || a == ActionRight || a == ActionKick
}

// InputFrame is the set of actions triggered by one input event.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// FrameOf builds a frame holding a single action.
func FrameOf(a Action) InputFrame {
	f := NewInputFrame()
	f.Set(a)
	return f
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
