// boloball is a two-player kick-ball board game for the terminal, SSH and the browser.
//
// Usage:
//
//	boloball list              - List board variants
//	boloball play [variant]    - Hot-seat game on one keyboard
//	boloball menu              - Interactive variant picker
//	boloball serve             - SSH server with online matchmaking
//	boloball web               - WebSocket server for the browser client
//	boloball scores [variant]  - Best winning scores
//	boloball history           - Recent matches
//
// Global flags:
//
//	--seed <value>   - Set RNG seed for reproducible boards
//	--db <path>      - Set database path (default: from config, ~/.boloball/matches.db)
//	--config <path>  - Load settings from a YAML file
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/boloball/internal/config"
	"github.com/vovakirdan/boloball/internal/storage"

	// Import variants to register them
	_ "github.com/vovakirdan/boloball/internal/games/boloball"
)

var (
	// Global flags
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "boloball",
	Short: "BoloBall - kick balls down a board of arrows, blocks and wormholes",
	Long: `BoloBall is a two-player turn-based board game. Red and blue take turns
kicking their balls from the top row; balls fall through arrows, gray blocks,
bonus cells and wormholes and score points on the way down.

Available commands:
  list     - Show all board variants
  play     - Hot-seat game on one keyboard
  menu     - Interactive variant picker
  serve    - SSH server for online play
  web      - WebSocket server for the browser client
  scores   - Best winning scores
  history  - Recent matches

Examples:
  boloball list
  boloball play mini
  boloball play --rows 10 --cols 12 --arrows 3
  boloball serve --ssh :2222 --web
  boloball scores standard`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to match database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to boloball.yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig reads the configuration and applies global flag overrides.
func loadConfig() (config.BoloConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, nil
}

// openStore opens match storage. Failures are reported and play continues without it.
func openStore(cfg config.BoloConfig) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		return nil
	}
	return store
}

// newLogger returns the stderr logger used by the servers.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
