package smb

// RewardRange is the declared per-step reward bound. It is published, not
// enforced: a death step scores at least -25. The reference ships the same
// declaration, so clamping here would change its trajectories.
var RewardRange = [2]float64{-15, 15}

const (
	// maxXDelta guards the movement reward against position
	// discontinuities from deaths and resets; legitimate per-frame
	// movement never exceeds it.
	maxXDelta = 5

	deathPenalty = -25
)

// episodeContext holds the previous-frame values the reward terms compare
// against. It belongs to one episode; Reset rebaselines it.
type episodeContext struct {
	prevX    int
	prevY    int
	lastTime int
}

// rebaseline points the context at the given state so the first step of an
// episode scores against it rather than against the previous episode.
func (c *episodeContext) rebaseline(st State) {
	c.prevX = st.XPos
	c.prevY = st.YPos
	c.lastTime = st.Time
}

// xReward scores horizontal progress since the previous step. Deltas
// beyond maxXDelta are position discontinuities and score zero.
func (c *episodeContext) xReward(st State) float64 {
	d := st.XPos - c.prevX
	if d < -maxXDelta || d > maxXDelta {
		return 0
	}
	return float64(d)
}

// timePenalty scores the in-game clock ticking down. The baseline is
// updated on every evaluation; a positive delta only happens across a
// reset boundary and scores zero.
func (c *episodeContext) timePenalty(st State) float64 {
	d := st.Time - c.lastTime
	c.lastTime = st.Time
	if d > 0 {
		return 0
	}
	return float64(d)
}

// deathReward is the penalty for entering a dying or dead state.
func deathReward(st State) float64 {
	if st.IsDying || st.IsDead {
		return deathPenalty
	}
	return 0
}

// reward combines the three terms for one step.
func (c *episodeContext) reward(st State) float64 {
	return c.xReward(st) + c.timePenalty(st) + deathReward(st)
}
