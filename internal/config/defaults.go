package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/boloball/internal/games/boloball/engine"
)

//go:embed defaults/boloball.yaml
var defaultBoloYAML []byte

// DefaultBoloConfig returns the built-in configuration.
// It matches defaults/boloball.yaml.
func DefaultBoloConfig() BoloConfig {
	return BoloConfig{
		Board: BoardSettings{
			Rows:       engine.MaxRows,
			Cols:       engine.MaxCols,
			BonusValue: engine.DefaultBonusValue,
			Wormholes:  true,
		},
		Server: ServerSettings{
			SSHAddress:    ":23234",
			WebAddress:    ":8080",
			IdleTimeout:   30 * time.Minute,
			LobbyTimeout:  2 * time.Minute,
			CleanupPeriod: 30 * time.Second,
			EventBuffer:   64,
		},
		Storage: StorageSettings{
			DBPath: "~/.boloball/matches.db",
		},
	}
}
