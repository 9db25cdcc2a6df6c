package config

import (
	"fmt"
	"sort"
)

// Preset names a canned board layout.
type Preset string

const (
	PresetStandard    Preset = "standard"    // Full board, portals only
	PresetMini        Preset = "mini"        // Smallest board, a few of everything
	PresetCalm        Preset = "calm"        // No grays or arrows
	PresetChaos       Preset = "chaos"       // Everything at maximum
	PresetNoWormholes Preset = "nowormholes" // Standard board without portals
)

var presetBoards = map[Preset]BoardSettings{
	PresetStandard: {Rows: 18, Cols: 27, Grays: 0, Arrows: 0, Bonuses: 0, BonusValue: 10, Wormholes: true},
	PresetMini:     {Rows: 5, Cols: 6, Grays: -2, Arrows: -3, Bonuses: 0, BonusValue: 10, Wormholes: true},
	PresetCalm:     {Rows: 12, Cols: 15, Grays: -4, Arrows: -6, Bonuses: 0, BonusValue: 10, Wormholes: true},
	PresetChaos:    {Rows: 18, Cols: 27, Grays: 2, Arrows: 3, Bonuses: 1, BonusValue: 25, Wormholes: true},
	PresetNoWormholes: {
		Rows: 18, Cols: 27, Grays: 0, Arrows: 0, Bonuses: 0, BonusValue: 10, Wormholes: false,
	},
}

var presetTitles = map[Preset]string{
	PresetStandard:    "Standard",
	PresetMini:        "Mini",
	PresetCalm:        "Calm",
	PresetChaos:       "Chaos",
	PresetNoWormholes: "No Wormholes",
}

// Presets returns all preset names, sorted.
func Presets() []Preset {
	out := make([]Preset, 0, len(presetBoards))
	for p := range presetBoards {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Title returns the display name of the preset.
func (p Preset) Title() string {
	if t, ok := presetTitles[p]; ok {
		return t
	}
	return string(p)
}

// PresetBoard returns the board settings of a preset.
func PresetBoard(p Preset) (BoardSettings, error) {
	b, ok := presetBoards[p]
	if !ok {
		return BoardSettings{}, fmt.Errorf("config: unknown preset %q", p)
	}
	return b, nil
}

// ApplyPreset replaces cfg.Board with the named preset's settings.
func ApplyPreset(cfg *BoloConfig, name string) error {
	b, err := PresetBoard(Preset(name))
	if err != nil {
		return err
	}
	cfg.Board = b
	return nil
}
