// Package roms resolves game ROM variants on disk and validates stage
// targets against the level layout of each game.
package roms

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"

	"github.com/nesrl/smbenv/internal/smb"
)

// Mode selects a ROM variant. Besides the unmodified game there are
// graphics hacks that simplify the observation for learning agents.
type Mode string

const (
	// ModeVanilla is the unmodified game.
	ModeVanilla Mode = "vanilla"
	// ModeDownsample reduces the palette while keeping the sprite art.
	ModeDownsample Mode = "downsample"
	// ModePixel replaces sprites with single-color pixel art.
	ModePixel Mode = "pixel"
	// ModeRectangle replaces sprites with solid bounding rectangles.
	ModeRectangle Mode = "rectangle"
)

// Valid reports whether m names a known ROM variant.
func (m Mode) Valid() bool {
	switch m {
	case ModeVanilla, ModeDownsample, ModePixel, ModeRectangle:
		return true
	}
	return false
}

// Path returns the ROM file path for a game and variant under dir.
// The Lost Levels only ships in the vanilla and downsample variants.
func Path(dir string, lostLevels bool, mode Mode) (string, error) {
	if !mode.Valid() {
		return "", fmt.Errorf("roms: unknown rom mode %q", mode)
	}

	name := "super-mario-bros"
	if lostLevels {
		if mode == ModePixel || mode == ModeRectangle {
			return "", fmt.Errorf("roms: no %s variant of the Lost Levels", mode)
		}
		name = "super-mario-bros-2"
	}
	if mode != ModeVanilla {
		name += "-" + string(mode)
	}
	return filepath.Join(dir, name+".nes"), nil
}

// Load opens a ROM file and parses its iNES header, rejecting files that
// are not valid cartridges before an emulator ever sees them.
func Load(path string) (*cartridge.Cartridge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rom: %w", err)
	}
	defer file.Close()

	cart, err := cartridge.LoadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading rom %s: %w", path, err)
	}
	return cart, nil
}

// worldCount per game: the Lost Levels continues past world 8 with the
// letter worlds A-D.
func worldCount(lostLevels bool) int {
	if lostLevels {
		return 12
	}
	return 8
}

// DecodeTarget validates a world/stage pair and derives the RAM area index
// the stage loads at. Stages past the first in worlds with a mid-world
// pipe intro (1, 2, 4 and 7) sit one area later than their stage number.
func DecodeTarget(world, stage int, lostLevels bool) (smb.Target, error) {
	if worlds := worldCount(lostLevels); world < 1 || world > worlds {
		return smb.Target{}, fmt.Errorf("roms: world %d out of range [1, %d]", world, worlds)
	}
	if stage < 1 || stage > 4 {
		return smb.Target{}, fmt.Errorf("roms: stage %d out of range [1, 4]", stage)
	}

	area := stage
	switch world {
	case 1, 2, 4, 7:
		if stage >= 2 {
			area++
		}
	}
	return smb.Target{World: world, Stage: stage, Area: area}, nil
}

// AllTargets enumerates every stage of a game in world/stage order. It is
// the default pool for random-stage episodes.
func AllTargets(lostLevels bool) []smb.Target {
	worlds := worldCount(lostLevels)
	targets := make([]smb.Target, 0, worlds*4)
	for world := 1; world <= worlds; world++ {
		for stage := 1; stage <= 4; stage++ {
			t, err := DecodeTarget(world, stage, lostLevels)
			if err != nil {
				panic(err)
			}
			targets = append(targets, t)
		}
	}
	return targets
}
