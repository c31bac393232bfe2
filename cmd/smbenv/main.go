// smbenv is a harness around the Super Mario Bros reinforcement learning
// environment.
//
// Usage:
//
//	smbenv list              - List registered environments
//	smbenv play [env]        - Run random-agent episodes
//	smbenv scores [env]      - Show recorded episode results
//	smbenv version           - Print version information
//
// Global flags:
//
//	--config <path>  - Path to a harness config YAML
//	--db <path>      - Set database path (default: ~/.smbenv/results.db)
//	--seed <value>   - RNG seed for action sampling and stage draws
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = ""
	date    = ""
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagSeed   int64
)

var logger = log.New(os.Stderr)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smbenv",
	Short: "Super Mario Bros environment harness",
	Long: `smbenv runs episodic rollouts of the Super Mario Bros environment
and records their outcomes.

Available commands:
  list     - Show all registered environment IDs
  play     - Run random-agent episodes in an environment
  scores   - View recorded episode results
  version  - Print version information

Examples:
  smbenv list
  smbenv play SuperMarioBros-1-1-v0
  smbenv play SuperMarioBrosRandomStages-v0 --episodes 5
  smbenv scores SuperMarioBros-1-1-v0`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(buildinfo.Version(version, commit, date))
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to harness config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = use config)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(versionCmd)
}
