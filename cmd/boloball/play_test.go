package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/boloball/internal/config"
)

func newPlayFlags(t *testing.T, set map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "play"}
	addBoardFlags(cmd)
	for name, value := range set {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("Set(%s) error: %v", name, err)
		}
	}
	return cmd
}

func TestBoardFromFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		flags  map[string]string
		wantID string
		rows   int
		cols   int
	}{
		{"default config", nil, nil, "standard", 18, 27},
		{"preset argument", []string{"mini"}, nil, "mini", 5, 6},
		{"flag override", nil, map[string]string{"rows": "10", "cols": "12"}, customID, 10, 12},
		{"override on preset", []string{"calm"}, map[string]string{"wormholes": "false"}, customID, 12, 15},
		{"clamped", nil, map[string]string{"rows": "99"}, customID, 18, 27},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newPlayFlags(t, tt.flags)
			game, err := boardFromFlags(cmd, config.DefaultBoloConfig(), tt.args)
			if err != nil {
				t.Fatalf("boardFromFlags() error: %v", err)
			}
			if game.ID() != tt.wantID {
				t.Errorf("ID() = %q, expected %q", game.ID(), tt.wantID)
			}
			if b := game.Board(); b.Rows != tt.rows || b.Cols != tt.cols {
				t.Errorf("Board() = %dx%d, expected %dx%d", b.Rows, b.Cols, tt.rows, tt.cols)
			}
		})
	}
}

func TestBoardFromFlagsUnknownPreset(t *testing.T) {
	cmd := newPlayFlags(t, nil)
	if _, err := boardFromFlags(cmd, config.DefaultBoloConfig(), []string{"huge"}); err == nil {
		t.Error("expected error for unknown preset")
	}
}
