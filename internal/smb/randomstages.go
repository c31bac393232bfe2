package smb

import (
	"errors"
	"math/rand"

	"github.com/nesrl/smbenv/internal/gym"
	"github.com/nesrl/smbenv/internal/nes"
)

// RandomStages wraps a single-stage environment and re-targets it to a
// stage drawn from a fixed pool on every reset. It is the only place a
// reset seed has an effect; the wrapped environment itself is
// deterministic.
type RandomStages struct {
	env  *Env
	pool []Target
	rng  *rand.Rand
}

// NewRandomStages builds the wrapper over env with the given stage pool.
// The pool must not be empty; seed initializes the stage draw sequence.
func NewRandomStages(env *Env, pool []Target, seed int64) (*RandomStages, error) {
	if len(pool) == 0 {
		return nil, errors.New("smb: random stage pool is empty")
	}
	return &RandomStages{
		env:  env,
		pool: append([]Target(nil), pool...),
		rng:  rand.New(rand.NewSource(seed)),
	}, nil
}

// Reset draws the next stage from the pool and starts an episode on it.
// A nonzero seed reseeds the draw sequence first, so a fixed seed replays
// the same stage order.
func (r *RandomStages) Reset(seed int64) (gym.Observation, error) {
	if seed != 0 {
		r.rng = rand.New(rand.NewSource(seed))
	}
	t := r.pool[r.rng.Intn(len(r.pool))]
	r.env.setTarget(&t)
	return r.env.Reset(seed)
}

// Step delegates to the wrapped environment.
func (r *RandomStages) Step(action nes.Buttons) (gym.StepResult, error) {
	return r.env.Step(action)
}

// Close releases the wrapped environment.
func (r *RandomStages) Close() error {
	return r.env.Close()
}

func (e *Env) setTarget(t *Target) {
	e.target = t
	e.skip.target = t
}
