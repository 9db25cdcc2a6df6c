package engine

// Snapshot is a read-only projection of the game for rendering and transport.
// It shares no memory with the engine.
type Snapshot struct {
	Grid       [][]Cell `json:"board"`
	Active     Color    `json:"active"`
	RedScore   uint64   `json:"red_score"`
	BlueScore  uint64   `json:"blue_score"`
	Rows       int      `json:"rows"`
	Cols       int      `json:"cols"`
	RedColumn  int      `json:"red_column"`
	BlueColumn int      `json:"blue_column"`
	BonusValue int      `json:"bonus_value"`
	RedMobile  bool     `json:"red_mobile"`
	BlueMobile bool     `json:"blue_mobile"`
	Over       bool     `json:"over"`
}

// Snapshot returns a deep copy of the current game state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Grid:       e.board.Grid(),
		Active:     e.active,
		RedScore:   e.scores.Get(Red),
		BlueScore:  e.scores.Get(Blue),
		Rows:       e.board.rows,
		Cols:       e.board.cols,
		RedColumn:  e.red.Column,
		BlueColumn: e.blue.Column,
		BonusValue: e.bonusValue,
		RedMobile:  e.red.Mobile,
		BlueMobile: e.blue.Mobile,
		Over:       e.over,
	}
}

// Column returns the color's column in the snapshot.
func (s Snapshot) Column(c Color) int {
	if c == Blue {
		return s.BlueColumn
	}
	return s.RedColumn
}

// Score returns the color's score in the snapshot.
func (s Snapshot) Score(c Color) uint64 {
	if c == Blue {
		return s.BlueScore
	}
	return s.RedScore
}

// Winner is the outcome of a finished game.
type Winner int

const (
	Tie Winner = iota
	RedWins
	BlueWins
)

func (w Winner) String() string {
	switch w {
	case RedWins:
		return "red"
	case BlueWins:
		return "blue"
	default:
		return "tie"
	}
}

// MarshalText encodes the winner as "red", "blue" or "tie".
func (w Winner) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// Color returns the winning color, or NoColor for a tie.
func (w Winner) Color() Color {
	switch w {
	case RedWins:
		return Red
	case BlueWins:
		return Blue
	default:
		return NoColor
	}
}

// Result is the final score of a finished game.
type Result struct {
	Winner    Winner `json:"winner"`
	RedScore  uint64 `json:"red_score"`
	BlueScore uint64 `json:"blue_score"`
}

// FinalResult returns the outcome. ok is false until the game is over.
func (e *Engine) FinalResult() (res Result, ok bool) {
	if !e.over {
		return Result{}, false
	}
	res = Result{RedScore: e.scores.Get(Red), BlueScore: e.scores.Get(Blue)}
	switch {
	case res.RedScore > res.BlueScore:
		res.Winner = RedWins
	case res.BlueScore > res.RedScore:
		res.Winner = BlueWins
	default:
		res.Winner = Tie
	}
	return res, true
}
