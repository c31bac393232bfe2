// Package gym declares the episodic step/reset contract shared by the
// environment implementations and the registry, so the registry can hand
// out environments without depending on a concrete type.
package gym

import "github.com/nesrl/smbenv/internal/nes"

// Observation is one screen frame, nes.ScreenWidth*nes.ScreenHeight RGB
// triplets in row-major order. The slice is a copy owned by the caller.
type Observation []uint8

// Info carries the per-step diagnostic record.
type Info struct {
	Coins   int
	FlagGet bool
	Life    int
	Score   int
	Stage   int
	Status  string
	Time    int
	World   int
	XPos    int
	YPos    int
	XSpeed  int
	YSpeed  int
}

// Map renders the record as a mapping with its canonical keys:
// coins, flag_get, life, score, stage, status, time, world, x_pos, y_pos,
// x_speed, y_speed.
func (i Info) Map() map[string]any {
	return map[string]any{
		"coins":    i.Coins,
		"flag_get": i.FlagGet,
		"life":     i.Life,
		"score":    i.Score,
		"stage":    i.Stage,
		"status":   i.Status,
		"time":     i.Time,
		"world":    i.World,
		"x_pos":    i.XPos,
		"y_pos":    i.YPos,
		"x_speed":  i.XSpeed,
		"y_speed":  i.YSpeed,
	}
}

// StepResult is the outcome of a single environment step.
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Env is an episodic environment over an emulator instance. Implementations
// are strictly single-threaded: one call completes before the next begins.
type Env interface {
	// Reset starts a new episode and returns the initial observation.
	// The seed is accepted for interface compatibility; deterministic
	// backends may ignore it.
	Reset(seed int64) (Observation, error)

	// Step advances one frame with the given controller input.
	// After a terminated or truncated result the environment must be
	// Reset before the next Step.
	Step(action nes.Buttons) (StepResult, error)

	// Close releases the underlying emulator.
	Close() error
}
