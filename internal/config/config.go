// Package config provides YAML-based configuration loading for the
// environment harness.
package config

// Config is the full harness configuration.
type Config struct {
	ROMs    ROMsConfig    `yaml:"roms"`
	Sim     SimConfig     `yaml:"sim"`
	Play    PlayConfig    `yaml:"play"`
	Storage StorageConfig `yaml:"storage"`
}

// ROMsConfig locates game ROM files on disk.
type ROMsConfig struct {
	// Dir is the directory the ROM variants are resolved in.
	Dir string `yaml:"dir"`
}

// SimConfig tunes the simulated console backend.
type SimConfig struct {
	// FlagX is the flagpole position in every simulated stage.
	// Zero keeps the backend default.
	FlagX int `yaml:"flag_x"`
}

// PlayConfig holds the defaults for rollout runs.
type PlayConfig struct {
	// Env is the environment ID to instantiate.
	Env string `yaml:"env"`

	// Actions names the action list: "right-only", "simple" or "complex".
	Actions string `yaml:"actions"`

	// Episodes is how many episodes one run plays.
	Episodes int `yaml:"episodes"`

	// MaxSteps truncates each episode; zero disables the limit.
	MaxSteps int `yaml:"max_steps"`

	// Seed feeds the action sampler and random-stage draws.
	Seed int64 `yaml:"seed"`
}

// StorageConfig locates the rollout results database.
type StorageConfig struct {
	// Path is the SQLite database file; a leading ~ expands to the
	// user's home directory.
	Path string `yaml:"path"`
}
