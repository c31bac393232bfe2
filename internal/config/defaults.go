package config

import (
	_ "embed"
)

//go:embed defaults/smbenv.yaml
var defaultYAML []byte

// Default returns the hardcoded default configuration, the fallback when
// even the embedded YAML fails to parse.
func Default() Config {
	return Config{
		ROMs: ROMsConfig{
			Dir: "roms",
		},
		Play: PlayConfig{
			Env:      "SuperMarioBros-1-1-v0",
			Actions:  "simple",
			Episodes: 1,
			MaxSteps: 2000,
			Seed:     1,
		},
		Storage: StorageConfig{
			Path: "~/.smbenv/results.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file, for
// writing out a starter config.
func DefaultYAML() []byte {
	return defaultYAML
}
