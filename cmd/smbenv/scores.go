package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nesrl/smbenv/internal/config"
	"github.com/nesrl/smbenv/internal/registry"
	"github.com/nesrl/smbenv/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [env]",
	Short: "Show recorded episode results",
	Long: `Display the top 10 episodes for an environment, or the most recent
episodes across all environments when no ID is given.

Examples:
  smbenv scores
  smbenv scores SuperMarioBros-1-1-v0`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(storagePath(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening results database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		showRecent(store)
		return
	}
	showTop(store, args[0])
}

func showRecent(store *storage.Store) {
	rollouts, err := store.RecentRollouts(10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent episodes")
	fmt.Println()
	printRollouts(rollouts, true)
}

func showTop(store *storage.Store, envID string) {
	if !registry.Exists(envID) {
		fmt.Fprintf(os.Stderr, "Error: unknown environment %q\n", envID)
		fmt.Fprintln(os.Stderr, "Run 'smbenv list' to see registered environments.")
		os.Exit(1)
	}

	rollouts, err := store.TopRollouts(envID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best episodes - %s\n", envID)
	fmt.Println()
	printRollouts(rollouts, false)

	if best, ok, err := store.BestReward(envID); err == nil && ok {
		fmt.Println()
		fmt.Printf("Best reward: %.1f\n", best)
	}
}

func printRollouts(rollouts []storage.Rollout, withEnv bool) {
	if len(rollouts) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Run 'smbenv play <env>' to record the first one.")
		return
	}

	if withEnv {
		fmt.Printf("  %-30s  %-8s  %-10s  %-6s  %s\n", "Env", "Steps", "Reward", "Stage", "Date")
		fmt.Printf("  %-30s  %-8s  %-10s  %-6s  %s\n", "---", "-----", "------", "-----", "----")
		for _, r := range rollouts {
			fmt.Printf("  %-30s  %-8d  %-10.1f  %d-%-4d  %s\n",
				r.EnvID, r.Steps, r.Reward, r.World, r.Stage,
				r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return
	}

	fmt.Printf("  %-4s  %-8s  %-10s  %-6s  %-5s  %s\n", "Rank", "Steps", "Reward", "Stage", "Flag", "Date")
	fmt.Printf("  %-4s  %-8s  %-10s  %-6s  %-5s  %s\n", "----", "-----", "------", "-----", "----", "----")
	for i, r := range rollouts {
		fmt.Printf("  %-4d  %-8d  %-10.1f  %d-%-4d  %-5t  %s\n",
			i+1, r.Steps, r.Reward, r.World, r.Stage, r.FlagGet,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
