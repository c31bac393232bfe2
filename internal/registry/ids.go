package registry

import (
	"fmt"

	"github.com/nesrl/smbenv/internal/roms"
)

// The episode step limit is effectively unbounded; training harnesses
// layer their own limits on top.
const defaultMaxEpisodeSteps = 9999999

// versionModes maps the ID version suffix to its ROM graphics variant.
var versionModes = []roms.Mode{
	roms.ModeVanilla,
	roms.ModeDownsample,
	roms.ModePixel,
	roms.ModeRectangle,
}

// lostLevelsVersions is how many version suffixes the Lost Levels has;
// the pixel and rectangle hacks were never made for it.
const lostLevelsVersions = 2

func init() {
	registerFullGame()
	registerRandomStages()
	registerStageGrid()
}

// registerFullGame registers the whole-game environments for both games.
func registerFullGame() {
	for v, mode := range versionModes {
		Register(Spec{
			ID:              fmt.Sprintf("SuperMarioBros-v%d", v),
			Mode:            mode,
			MaxEpisodeSteps: defaultMaxEpisodeSteps,
		})
	}
	for v := 0; v < lostLevelsVersions; v++ {
		Register(Spec{
			ID:              fmt.Sprintf("SuperMarioBros2-v%d", v),
			LostLevels:      true,
			Mode:            versionModes[v],
			MaxEpisodeSteps: defaultMaxEpisodeSteps,
		})
	}
}

// registerRandomStages registers the environments that draw a fresh stage
// on every reset.
func registerRandomStages() {
	for v, mode := range versionModes {
		Register(Spec{
			ID:              fmt.Sprintf("SuperMarioBrosRandomStages-v%d", v),
			Mode:            mode,
			RandomStages:    true,
			MaxEpisodeSteps: defaultMaxEpisodeSteps,
		})
	}
}

// registerStageGrid registers one single-stage environment per stage and
// version of the original game.
func registerStageGrid() {
	for v, mode := range versionModes {
		for world := 1; world <= 8; world++ {
			for stage := 1; stage <= 4; stage++ {
				target, err := roms.DecodeTarget(world, stage, false)
				if err != nil {
					panic(err)
				}
				Register(Spec{
					ID:              fmt.Sprintf("SuperMarioBros-%d-%d-v%d", world, stage, v),
					Mode:            mode,
					Target:          &target,
					MaxEpisodeSteps: defaultMaxEpisodeSteps,
				})
			}
		}
	}
}
