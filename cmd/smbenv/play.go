package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/nesrl/smbenv/internal/config"
	"github.com/nesrl/smbenv/internal/gym"
	"github.com/nesrl/smbenv/internal/nes"
	"github.com/nesrl/smbenv/internal/registry"
	"github.com/nesrl/smbenv/internal/roms"
	"github.com/nesrl/smbenv/internal/sim"
	"github.com/nesrl/smbenv/internal/storage"
)

var (
	flagEpisodes int
	flagMaxSteps int
	flagActions  string
)

var playCmd = &cobra.Command{
	Use:   "play [env]",
	Short: "Run random-agent episodes",
	Long: `Run one or more episodes with uniformly random actions and record
their outcomes.

Action lists:
  right-only - Right movement only
  simple     - Right movement plus jumps
  complex    - Full movement in both directions

Examples:
  smbenv play
  smbenv play SuperMarioBros-1-1-v0
  smbenv play SuperMarioBros-v0 --actions complex --episodes 3
  smbenv play SuperMarioBrosRandomStages-v0 --seed 7`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagEpisodes, "episodes", 0, "Number of episodes to run (overrides config)")
	playCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Per-episode step limit (overrides config)")
	playCmd.Flags().StringVar(&flagActions, "actions", "", "Action list: right-only, simple, complex (overrides config)")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyPlayFlags(&cfg)

	envID := cfg.Play.Env
	if len(args) == 1 {
		envID = args[0]
	}

	spec, ok := registry.Lookup(envID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown environment %q\n", envID)
		fmt.Fprintln(os.Stderr, "Run 'smbenv list' to see registered environments.")
		os.Exit(1)
	}

	actions, err := actionList(cfg.Play.Actions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	verifyROM(cfg, spec)

	store, err := storage.Open(storagePath(cfg))
	if err != nil {
		logger.Warn("could not open results database, results will not be saved", "err", err)
		store = nil
	}

	sampler := rand.New(rand.NewSource(cfg.Play.Seed))
	for episode := 1; episode <= cfg.Play.Episodes; episode++ {
		if err := playEpisode(envID, cfg, actions, sampler, store, episode); err != nil {
			if store != nil {
				store.Close()
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if store != nil {
		store.Close()
	}
}

func playEpisode(envID string, cfg config.Config,
	actions []nes.Buttons, sampler *rand.Rand, store *storage.Store, episode int) error {

	em := sim.New(sim.Options{FlagX: cfg.Sim.FlagX})
	env, err := registry.Make(envID, em)
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.Reset(cfg.Play.Seed); err != nil {
		return fmt.Errorf("resetting %s: %w", envID, err)
	}

	var (
		total float64
		steps int
		last  gym.Info
	)
	for steps < cfg.Play.MaxSteps {
		result, err := env.Step(actions[sampler.Intn(len(actions))])
		if err != nil {
			return fmt.Errorf("stepping %s: %w", envID, err)
		}
		total += result.Reward
		steps++
		last = result.Info
		if result.Terminated || result.Truncated {
			break
		}
	}

	logger.Info("episode finished",
		"env", envID,
		"episode", episode,
		"steps", steps,
		"reward", total,
		"x_pos", last.XPos,
		"stage", fmt.Sprintf("%d-%d", last.World, last.Stage),
		"flag", last.FlagGet,
	)

	if store == nil {
		return nil
	}
	if _, err := store.SaveRollout(storage.Rollout{
		EnvID:   envID,
		Steps:   steps,
		Reward:  total,
		FlagGet: last.FlagGet,
		World:   last.World,
		Stage:   last.Stage,
		XPos:    last.XPos,
	}); err != nil {
		logger.Warn("could not save rollout", "err", err)
	}
	return nil
}

// verifyROM checks the ROM file the spec would run on when one is present.
// Rollouts run on the simulated backend either way; the check surfaces
// broken ROM setups early.
func verifyROM(cfg config.Config, spec registry.Spec) {
	path, err := roms.Path(cfg.ROMs.Dir, spec.LostLevels, spec.Mode)
	if err != nil {
		logger.Warn("no rom variant for environment", "err", err)
		return
	}
	if _, statErr := os.Stat(path); statErr != nil {
		logger.Debug("rom file not present, using simulated backend", "path", path)
		return
	}
	cart, err := roms.Load(path)
	if err != nil {
		logger.Warn("rom file failed validation", "path", path, "err", err)
		return
	}
	logger.Info("rom verified", "path", path, "prg", len(cart.PRG), "chr", len(cart.CHR))
}

func applyPlayFlags(cfg *config.Config) {
	if flagEpisodes > 0 {
		cfg.Play.Episodes = flagEpisodes
	}
	if flagMaxSteps > 0 {
		cfg.Play.MaxSteps = flagMaxSteps
	}
	if flagActions != "" {
		cfg.Play.Actions = flagActions
	}
	if flagSeed != 0 {
		cfg.Play.Seed = flagSeed
	}
	if cfg.Play.Episodes <= 0 {
		cfg.Play.Episodes = 1
	}
	if cfg.Play.MaxSteps <= 0 {
		cfg.Play.MaxSteps = 2000
	}
}

func storagePath(cfg config.Config) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return cfg.Storage.Path
}

func actionList(name string) ([]nes.Buttons, error) {
	switch name {
	case "right-only":
		return nes.RightOnly, nil
	case "simple", "":
		return nes.SimpleMovement, nil
	case "complex":
		return nes.ComplexMovement, nil
	}
	return nil, fmt.Errorf("unknown action list %q", name)
}
