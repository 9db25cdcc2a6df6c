package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/boloball/internal/registry"
	"github.com/vovakirdan/boloball/internal/storage"
)

var (
	flagScoresLimit  int
	flagHistoryLimit int
	flagHistoryMode  string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show best winning scores",
	Long: `Display the best winning scores for a variant, or a per-variant
summary when no variant is given.

Examples:
  boloball scores
  boloball scores standard --limit 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent matches",
	Long: `List the most recent finished matches, newest first.

Examples:
  boloball history
  boloball history --mode online --limit 50`,
	RunE: runHistory,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of rows to show")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of rows to show")
	historyCmd.Flags().StringVar(&flagHistoryMode, "mode", "", "Only show hotseat or online matches")
}

// mustStore opens storage or fails the command.
func mustStore() (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening match database: %w", err)
	}
	return store, nil
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		return printVariantSummary(store)
	}

	gameID := args[0]
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w (run 'boloball list' to see available variants)", err)
	}

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'boloball play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-6s  %-5s  %-7s  %s\n", "Rank", "Score", "Winner", "Opp", "Mode", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-5s  %-7s  %s\n", "----", "-----", "------", "---", "----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-6d  %-6s  %-5d  %-7s  %s\n", i+1, entry.Score, entry.Winner, entry.Opponent, entry.Mode, dateStr)
	}

	fmt.Println()
	if highScore, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", highScore)
	}
	return nil
}

func printVariantSummary(store *storage.Store) error {
	stats, err := store.AllVariantStats()
	if err != nil {
		return fmt.Errorf("error retrieving stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("No matches recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-12s  %-7s  %-5s  %-5s  %-5s  %-5s  %-6s  %s\n",
		"Variant", "Matches", "Red", "Blue", "Ties", "Best", "Moves", "Last played")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-12s  %-7d  %-5d  %-5d  %-5d  %-5d  %-6.1f  %s\n",
			id, s.Matches, s.RedWins, s.BlueWins, s.Ties, s.HighScore, s.AvgMoves,
			s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := mustStore()
	if err != nil {
		return err
	}
	defer store.Close()

	matches, err := store.RecentMatches(flagHistoryMode, flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("error retrieving history: %w", err)
	}
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-12s  %-7s  %-9s  %-6s  %-5s  %-6s  %s\n",
		"Date", "Variant", "Mode", "Red-Blue", "Winner", "Moves", "Secs", "End")
	for _, m := range matches {
		fmt.Printf("  %-16s  %-12s  %-7s  %-9s  %-6s  %-5d  %-6d  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.GameID, m.Mode,
			fmt.Sprintf("%d-%d", m.Score1, m.Score2), m.Winner, m.Moves, m.Duration, m.EndReason)
	}
	return nil
}
