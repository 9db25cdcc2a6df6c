// Package registry maps variant IDs to game factories.
// Variants register from init(), so the CLI and servers can build a game
// from a name without importing the game package directly.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/boloball/internal/core"
)

// ErrUnknownGame is returned by Create for an unregistered ID.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is a playable variant. Implementations hold game logic only;
// input mapping and drawing to a terminal belong to the platform.
type Game interface {
	// ID is the variant name used on the command line and in score storage.
	ID() string

	// Title is shown in menus.
	Title() string

	// Reset starts a fresh game with the given seed and screen size.
	Reset(cfg core.RuntimeConfig)

	// Step applies one key press on behalf of the player whose turn it is.
	Step(in core.InputFrame) core.StepResult

	// Render draws the game into a pre-cleared screen.
	Render(dst *core.Screen)

	// State reports turn, scores and whether the game is over.
	State() core.GameState
}

// GameInfo describes a registered variant.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a new game instance.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = map[string]entry{}
)

// Register adds a variant. It panics on an empty or duplicate ID.
func Register(id, title string, f Factory) {
	if strings.TrimSpace(id) == "" {
		panic("registry: empty game id")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, dup := entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{info: GameInfo{ID: id, Title: title}, factory: f}
}

// List returns every registered variant ordered by ID.
func List() []GameInfo {
	mu.RLock()
	out := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	mu.RUnlock()

	slices.SortFunc(out, func(a, b GameInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Create builds a fresh instance of the variant with the given ID.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := entries[id]
	return ok
}
