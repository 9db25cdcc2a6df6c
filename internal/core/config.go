package core

// RuntimeConfig is passed to games when they are (re)started.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed; 0 means the platform picks one
}

// DefaultConfig returns an 80x24 screen with a platform-chosen seed.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
	}
}

// GameState is the platform-visible status of a two-player game.
type GameState struct {
	Turn     PlayerID // Seat to move
	Score1   int
	Score2   int
	Winner   PlayerID // NoPlayer while running or on a tie
	GameOver bool
}

// StepResult is returned after a game processes one input.
type StepResult struct {
	State   GameState
	Changed bool   // Whether the visible state changed
	Message string // Announcement to show both players, if any
}
