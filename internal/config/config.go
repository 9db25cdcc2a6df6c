// Package config provides YAML-based configuration loading and named board
// presets for BoloBall.
package config

import (
	"time"

	"github.com/vovakirdan/boloball/internal/games/boloball/engine"
)

// BoloConfig is the complete application configuration.
type BoloConfig struct {
	Board   BoardSettings   `yaml:"board"`
	Server  ServerSettings  `yaml:"server"`
	Storage StorageSettings `yaml:"storage"`
}

// BoardSettings defines board generation parameters.
// Values outside the documented ranges are clamped when a board is built.
type BoardSettings struct {
	Rows       int  `yaml:"rows"`
	Cols       int  `yaml:"cols"`
	Grays      int  `yaml:"grays"`
	Arrows     int  `yaml:"arrows"`
	Bonuses    int  `yaml:"bonuses"`
	BonusValue int  `yaml:"bonus_value"`
	Wormholes  bool `yaml:"wormholes"`
}

// EngineConfig converts the settings to the engine's generator input.
func (b BoardSettings) EngineConfig() engine.BoardConfig {
	return engine.BoardConfig{
		Rows:           b.Rows,
		Cols:           b.Cols,
		GrayFrequency:  b.Grays,
		ArrowFrequency: b.Arrows,
		BonusFrequency: b.Bonuses,
		BonusValue:     b.BonusValue,
		Wormholes:      b.Wormholes,
	}
}

// ServerSettings configures the SSH and WebSocket front-ends.
type ServerSettings struct {
	SSHAddress     string        `yaml:"ssh_address"`
	WebAddress     string        `yaml:"web_address"`
	HostKeyPath    string        `yaml:"host_key_path"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	LobbyTimeout   time.Duration `yaml:"lobby_timeout"`
	CleanupPeriod  time.Duration `yaml:"cleanup_period"`
	EventBuffer    int           `yaml:"event_buffer"`
	AllowedOrigins []string      `yaml:"allowed_origins"` // Empty allows any origin
}

// StorageSettings configures match history persistence.
type StorageSettings struct {
	DBPath string `yaml:"db_path"`
}
