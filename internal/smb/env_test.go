package smb

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/nesrl/smbenv/internal/gym"
	"github.com/nesrl/smbenv/internal/nes"
	"github.com/nesrl/smbenv/internal/sim"
)

func newTestEnv(t *testing.T, target *Target, simOpts sim.Options) (*Env, *sim.Sim) {
	t.Helper()
	em := sim.New(simOpts)
	env := New(em, Options{Target: target})
	t.Cleanup(func() { _ = env.Close() })
	return env, em
}

func resetEnv(t *testing.T, env *Env) gym.Observation {
	t.Helper()
	obs, err := env.Reset(0)
	assert.NoError(t, err)
	return obs
}

func TestResetAndFirstStep(t *testing.T) {
	env, _ := newTestEnv(t, &Target{World: 1, Stage: 1, Area: 1}, sim.Options{})

	obs := resetEnv(t, env)
	assert.Equal(t, nes.ScreenWidth*nes.ScreenHeight*3, len(obs))

	result, err := env.Step(nes.NoInput)
	assert.NoError(t, err)
	assert.False(t, result.Terminated)
	assert.False(t, result.Truncated)
	assert.Equal(t, 0.0, result.Reward)

	info := result.Info
	assert.Equal(t, 400, info.Time)
	assert.Equal(t, 40, info.XPos)
	assert.Equal(t, 2, info.Life)
	assert.Equal(t, 1, info.World)
	assert.Equal(t, 1, info.Stage)
	assert.Equal(t, 0, info.Coins)
	assert.Equal(t, 0, info.Score)
	assert.Equal(t, "small", info.Status)
	assert.False(t, info.FlagGet)
	assert.Equal(t, 0, info.XSpeed)
}

func TestFullGameReset(t *testing.T) {
	env, _ := newTestEnv(t, nil, sim.Options{})
	assert.False(t, env.IsSingleStageEnv())

	resetEnv(t, env)
	result, err := env.Step(nes.NoInput)
	assert.NoError(t, err)

	assert.Equal(t, 400, result.Info.Time)
	assert.Equal(t, 40, result.Info.XPos)
	assert.Equal(t, 1, result.Info.World)
	assert.Equal(t, 1, result.Info.Stage)
}

func TestTargetStageLoads(t *testing.T) {
	env, _ := newTestEnv(t, &Target{World: 4, Stage: 2, Area: 3}, sim.Options{})
	assert.True(t, env.IsSingleStageEnv())

	resetEnv(t, env)
	result, err := env.Step(nes.NoInput)
	assert.NoError(t, err)
	assert.Equal(t, 4, result.Info.World)
	assert.Equal(t, 2, result.Info.Stage)
}

func TestMovementReward(t *testing.T) {
	env, _ := newTestEnv(t, &Target{World: 1, Stage: 1, Area: 1}, sim.Options{})
	resetEnv(t, env)

	for i := 1; i <= 5; i++ {
		result, err := env.Step(nes.ButtonRight)
		assert.NoError(t, err)
		assert.Equal(t, 1.0, result.Reward)
		assert.Equal(t, 40+i, result.Info.XPos)
		assert.Equal(t, 1, result.Info.XSpeed)
	}
}

func TestStepBeforeResetFails(t *testing.T) {
	env, _ := newTestEnv(t, nil, sim.Options{})

	_, err := env.Step(nes.NoInput)
	assert.True(t, errors.Is(err, ErrNeedsReset))
}

func TestDeathEndsSingleStageEpisode(t *testing.T) {
	env, em := newTestEnv(t, &Target{World: 1, Stage: 1, Area: 1}, sim.Options{})
	resetEnv(t, env)

	em.Write(0x000E, uint8(StateDying))
	result, err := env.Step(nes.NoInput)
	assert.NoError(t, err)
	assert.True(t, result.Terminated)
	assert.Equal(t, -25.0, result.Reward)

	_, err = env.Step(nes.NoInput)
	assert.True(t, errors.Is(err, ErrNeedsReset))

	// A fresh reset starts a new episode.
	resetEnv(t, env)
	result, err = env.Step(nes.NoInput)
	assert.NoError(t, err)
	assert.False(t, result.Terminated)
	assert.Equal(t, 2, result.Info.Life)
}

func TestFullGameDeathRespawns(t *testing.T) {
	env, em := newTestEnv(t, nil, sim.Options{})
	resetEnv(t, env)

	// The death step pays the penalty but does not end a full-game
	// episode.
	em.Write(0x000E, uint8(StateDying))
	result, err := env.Step(nes.NoInput)
	assert.NoError(t, err)
	assert.False(t, result.Terminated)
	assert.Equal(t, -25.0, result.Reward)

	// The next step fast-forwards through the respawn; the clock jump
	// back up scores zero.
	result, err = env.Step(nes.NoInput)
	assert.NoError(t, err)
	assert.False(t, result.Terminated)
	assert.Equal(t, 0.0, result.Reward)
	assert.Equal(t, 1, result.Info.Life)
	assert.Equal(t, 401, result.Info.Time)
}

func TestFlagEndsSingleStageEpisode(t *testing.T) {
	env, _ := newTestEnv(t, &Target{World: 1, Stage: 1, Area: 1}, sim.Options{FlagX: 45})
	resetEnv(t, env)

	var result gym.StepResult
	var err error
	for i := 0; i < 10; i++ {
		result, err = env.Step(nes.ButtonRight)
		assert.NoError(t, err)
		if result.Terminated {
			break
		}
	}
	assert.True(t, result.Terminated)
	assert.True(t, result.Info.FlagGet)
}

func TestMaxEpisodeStepsTruncates(t *testing.T) {
	em := sim.New(sim.Options{})
	env := New(em, Options{
		Target:          &Target{World: 1, Stage: 1, Area: 1},
		MaxEpisodeSteps: 3,
	})
	defer env.Close()
	resetEnv(t, env)

	for i := 0; i < 2; i++ {
		result, err := env.Step(nes.NoInput)
		assert.NoError(t, err)
		assert.False(t, result.Truncated)
	}
	result, err := env.Step(nes.NoInput)
	assert.NoError(t, err)
	assert.True(t, result.Truncated)
	assert.False(t, result.Terminated)

	_, err = env.Step(nes.NoInput)
	assert.True(t, errors.Is(err, ErrNeedsReset))
}

func TestTruncatePredicate(t *testing.T) {
	em := sim.New(sim.Options{})
	env := New(em, Options{
		Target: &Target{World: 1, Stage: 1, Area: 1},
		Truncate: func(env *Env, reward float64, info gym.Info) bool {
			return info.XPos >= 42
		},
	})
	defer env.Close()
	resetEnv(t, env)

	result, err := env.Step(nes.ButtonRight)
	assert.NoError(t, err)
	assert.False(t, result.Truncated)

	result, err = env.Step(nes.ButtonRight)
	assert.NoError(t, err)
	assert.True(t, result.Truncated)
}

func TestInfoMapKeys(t *testing.T) {
	info := gym.Info{World: 1, Stage: 1, Status: "small"}
	m := info.Map()

	keys := []string{
		"coins", "flag_get", "life", "score", "stage", "status",
		"time", "world", "x_pos", "y_pos", "x_speed", "y_speed",
	}
	assert.Equal(t, len(keys), len(m))
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			t.Errorf("info map missing key %q", k)
		}
	}
}

func TestRandomStagesDeterministicDraws(t *testing.T) {
	pool := []Target{
		{World: 1, Stage: 1, Area: 1},
		{World: 2, Stage: 3, Area: 3},
		{World: 5, Stage: 1, Area: 1},
		{World: 8, Stage: 4, Area: 4},
	}

	run := func() []int {
		em := sim.New(sim.Options{})
		env := New(em, Options{})
		rs, err := NewRandomStages(env, pool, 7)
		assert.NoError(t, err)
		defer rs.Close()

		var worlds []int
		for i := 0; i < 4; i++ {
			_, err := rs.Reset(0)
			assert.NoError(t, err)
			result, err := rs.Step(nes.NoInput)
			assert.NoError(t, err)
			worlds = append(worlds, result.Info.World)
		}
		return worlds
	}

	assert.Equal(t, run(), run())
}

func TestRandomStagesEmptyPool(t *testing.T) {
	em := sim.New(sim.Options{})
	env := New(em, Options{})
	defer env.Close()

	_, err := NewRandomStages(env, nil, 1)
	assert.Error(t, err)
}
