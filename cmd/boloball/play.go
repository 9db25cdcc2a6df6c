package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/boloball/internal/config"
	"github.com/vovakirdan/boloball/internal/core"
	"github.com/vovakirdan/boloball/internal/games/boloball"
	"github.com/vovakirdan/boloball/internal/platform/tui"
)

// customID names boards built from flags or a config file.
const customID = "custom"

var (
	flagRows       int
	flagCols       int
	flagGrays      int
	flagArrows     int
	flagBonuses    int
	flagBonusValue int
	flagWormholes  bool
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a hot-seat game",
	Long: `Start a game for two players sharing one keyboard.
The player to move is highlighted; every key acts for them.

Controls:
  A/Left        - Move left
  D/Right       - Move right
  S/Down/Space  - Kick
  R             - New board (after game over)
  Ctrl+S        - Save a screenshot
  Esc/B         - Back
  Q/Ctrl+C      - Quit

Board flags override the variant (or the config file's board):
  --rows 5..18  --cols 6..27
  --grays -4..2  --arrows -6..3  --bonuses -2..1  (lowest = none)
  --bonus-value 1..99  --wormholes

Examples:
  boloball play
  boloball play mini
  boloball play chaos --seed 42
  boloball play --rows 10 --cols 12 --arrows 3 --wormholes=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	addBoardFlags(playCmd)
}

// addBoardFlags registers the board override flags on cmd.
func addBoardFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagRows, "rows", 18, "Board rows (5-18)")
	cmd.Flags().IntVar(&flagCols, "cols", 27, "Board columns (6-27)")
	cmd.Flags().IntVar(&flagGrays, "grays", 0, "Gray block frequency (-4 = none, 2 = most)")
	cmd.Flags().IntVar(&flagArrows, "arrows", 0, "Arrow frequency (-6 = none, 3 = most)")
	cmd.Flags().IntVar(&flagBonuses, "bonuses", 0, "Bonus frequency (-2 = none, 1 = most)")
	cmd.Flags().IntVar(&flagBonusValue, "bonus-value", 10, "Points per bonus cell (1-99)")
	cmd.Flags().BoolVar(&flagWormholes, "wormholes", true, "Place wormhole pairs")
}

// boardFromFlags builds the variant to play from the loaded config, an
// optional preset argument and any board flags set on the command line.
func boardFromFlags(cmd *cobra.Command, cfg config.BoloConfig, args []string) (*boloball.Game, error) {
	id := string(config.PresetStandard)
	if len(args) == 1 {
		id = args[0]
		if err := config.ApplyPreset(&cfg, id); err != nil {
			return nil, err
		}
	}

	b := &cfg.Board
	flags := cmd.Flags()
	overrides := []struct {
		name string
		set  func()
	}{
		{"rows", func() { b.Rows = flagRows }},
		{"cols", func() { b.Cols = flagCols }},
		{"grays", func() { b.Grays = flagGrays }},
		{"arrows", func() { b.Arrows = flagArrows }},
		{"bonuses", func() { b.Bonuses = flagBonuses }},
		{"bonus-value", func() { b.BonusValue = flagBonusValue }},
		{"wormholes", func() { b.Wormholes = flagWormholes }},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.set()
		}
	}

	preset, err := config.PresetBoard(config.Preset(id))
	if err != nil {
		return nil, err
	}
	title := "BoloBall: " + config.Preset(id).Title()
	if *b != preset {
		id, title = customID, "BoloBall: Custom"
	}
	return boloball.New(id, title, b.EngineConfig()), nil
}

// terminalConfig sizes the screen from the controlling terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.Seed = flagSeed
	return cfg
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	game, err := boardFromFlags(cmd, cfg, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Run 'boloball list' to see available variants.")
		return err
	}

	store := openStore(cfg)
	runErr := tui.Run(game, store, terminalConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}
	return nil
}
