package smb

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/nesrl/smbenv/internal/gym"
	"github.com/nesrl/smbenv/internal/nes"
)

// Ensure both environment flavors satisfy the shared contract.
var (
	_ gym.Env = (*Env)(nil)
	_ gym.Env = (*RandomStages)(nil)
)

// ErrNeedsReset reports a Step on an episode that already terminated or
// truncated.
var ErrNeedsReset = errors.New("smb: environment must be reset before stepping")

// Target pins an episode to a single stage. All three fields are 1-based
// and assumed validated (see roms.DecodeTarget).
type Target struct {
	World int
	Stage int
	Area  int
}

// TruncateFunc decides episode truncation from the step just taken. It is
// evaluated after reward and info are computed.
type TruncateFunc func(env *Env, reward float64, info gym.Info) bool

// Options configures an Env at construction. The mode (single-stage vs
// full game) is fixed by whether Target is set.
type Options struct {
	// Target selects a single stage to loop; nil plays the full game.
	Target *Target

	// MaxEpisodeSteps truncates episodes after this many steps; zero
	// disables the limit.
	MaxEpisodeSteps int

	// Truncate is an optional additional truncation predicate.
	Truncate TruncateFunc

	// Logger receives skip-loop diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// Env is the Super Mario Bros episode controller. It owns exactly one
// emulator instance and is strictly single-threaded: given the same action
// sequence and options, every decoded state, reward and info record is
// bit-for-bit reproducible.
type Env struct {
	em       nes.Emulator
	skip     skipper
	target   *Target
	maxSteps int
	truncate TruncateFunc

	ctx        episodeContext
	steps      int
	needsReset bool
}

// New creates an environment over the given emulator. The emulator is
// owned by the environment from here on; Close releases it.
func New(em nes.Emulator, opts Options) *Env {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Env{
		em:         em,
		skip:       skipper{em: em, target: opts.Target, logger: logger},
		target:     opts.Target,
		maxSteps:   opts.MaxEpisodeSteps,
		truncate:   opts.Truncate,
		needsReset: true,
	}
}

// IsSingleStageEnv reports whether episodes loop a single fixed stage
// rather than progressing through the full game.
func (e *Env) IsSingleStageEnv() bool {
	return e.target != nil
}

// Reset starts a new episode: the console is reset, the start screen and
// startup animation are skipped, and the reward baselines are taken from
// the first controllable frame. The seed is accepted for interface parity;
// the console is fully deterministic and does not consume it.
func (e *Env) Reset(seed int64) (gym.Observation, error) {
	_ = seed
	e.ctx.lastTime = 0
	e.em.Reset()
	if err := e.skip.skipStartScreen(); err != nil {
		return nil, err
	}
	e.ctx.rebaseline(Decode(e.em))
	e.steps = 0
	e.needsReset = false
	return e.observation(), nil
}

// Step advances one frame with the given controller input, fast-forwards
// any non-playable state that follows, and scores the transition.
func (e *Env) Step(action nes.Buttons) (gym.StepResult, error) {
	if e.needsReset {
		return gym.StepResult{}, ErrNeedsReset
	}

	before := Decode(e.em)
	e.ctx.prevX = before.XPos
	e.ctx.prevY = before.YPos

	e.em.FrameAdvance(action)

	// The post-step skips are pointless when this step ended the episode:
	// the upcoming reset replays the start sequence anyway.
	willReset := e.terminated(Decode(e.em))
	if err := e.skip.postStep(willReset); err != nil {
		return gym.StepResult{}, err
	}

	st := Decode(e.em)
	reward := e.ctx.reward(st)
	terminated := willReset || e.terminated(st)
	info := e.info(st)

	e.steps++
	truncated := e.maxSteps > 0 && e.steps >= e.maxSteps
	if !truncated && e.truncate != nil {
		truncated = e.truncate(e, reward, info)
	}

	e.needsReset = terminated || truncated
	return gym.StepResult{
		Observation: e.observation(),
		Reward:      reward,
		Terminated:  terminated,
		Truncated:   truncated,
		Info:        info,
	}, nil
}

// Close releases the underlying emulator.
func (e *Env) Close() error {
	return e.em.Close()
}

func (e *Env) terminated(st State) bool {
	if e.IsSingleStageEnv() {
		return st.IsDying || st.IsDead || st.FlagGet
	}
	return st.IsGameOver
}

func (e *Env) info(st State) gym.Info {
	return gym.Info{
		Coins:   st.Coins,
		FlagGet: st.FlagGet,
		Life:    st.Life,
		Score:   st.Score,
		Stage:   st.Stage,
		Status:  string(st.Status),
		Time:    st.Time,
		World:   st.World,
		XPos:    st.XPos,
		YPos:    st.YPos,
		XSpeed:  st.XPos - e.ctx.prevX,
		YSpeed:  st.YPos - e.ctx.prevY,
	}
}

func (e *Env) observation() gym.Observation {
	frame := e.em.Screen()
	obs := make(gym.Observation, len(frame))
	copy(obs, frame)
	return obs
}
