// Package registry provides a global catalog of environment
// configurations keyed by ID. Specs register themselves in init()
// functions, so callers can instantiate environments by name without
// hardcoded wiring.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nesrl/smbenv/internal/gym"
	"github.com/nesrl/smbenv/internal/nes"
	"github.com/nesrl/smbenv/internal/roms"
	"github.com/nesrl/smbenv/internal/smb"
)

// Spec is a registered environment configuration. It is pure data; Make
// binds it to an emulator instance.
type Spec struct {
	// ID is the unique environment name, e.g. "SuperMarioBros-1-1-v0".
	ID string

	// LostLevels selects the Lost Levels game instead of the original.
	LostLevels bool

	// Mode is the ROM graphics variant the spec expects.
	Mode roms.Mode

	// Target pins episodes to a single stage; nil plays the full game.
	Target *smb.Target

	// RandomStages draws a fresh stage from the whole game on each reset.
	// Mutually exclusive with Target.
	RandomStages bool

	// MaxEpisodeSteps truncates episodes; zero disables the limit.
	MaxEpisodeSteps int
}

var (
	specs = make(map[string]Spec)
	mu    sync.RWMutex
)

// Register adds a spec to the catalog. Typically called from an init()
// function; panics on a duplicate or inconsistent spec.
func Register(spec Spec) {
	mu.Lock()
	defer mu.Unlock()

	if spec.ID == "" {
		panic("registry: spec with empty ID")
	}
	if _, exists := specs[spec.ID]; exists {
		panic(fmt.Sprintf("registry: environment %q already registered", spec.ID))
	}
	if spec.RandomStages && spec.Target != nil {
		panic(fmt.Sprintf("registry: environment %q is both single-stage and random-stage", spec.ID))
	}

	specs[spec.ID] = spec
}

// List returns all registered specs sorted by ID.
func List() []Spec {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Spec, 0, len(specs))
	for _, spec := range specs {
		result = append(result, spec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the spec registered under id.
func Lookup(id string) (Spec, bool) {
	mu.RLock()
	defer mu.RUnlock()

	spec, ok := specs[id]
	return spec, ok
}

// Exists checks if an environment with the given ID is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Make instantiates the environment registered under id over the given
// emulator. The emulator must already have the spec's ROM loaded; the
// environment takes ownership of it.
func Make(id string, em nes.Emulator) (gym.Env, error) {
	spec, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("registry: unknown environment %q", id)
	}

	env := smb.New(em, smb.Options{
		Target:          spec.Target,
		MaxEpisodeSteps: spec.MaxEpisodeSteps,
	})
	if !spec.RandomStages {
		return env, nil
	}
	return smb.NewRandomStages(env, roms.AllTargets(spec.LostLevels), 0)
}
