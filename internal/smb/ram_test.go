package smb

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// ramStub is a read-only memory snapshot for decoder tests. Unset
// addresses read as zero.
type ramStub map[uint16]uint8

func (r ramStub) Read(addr uint16) uint8 { return r[addr] }

func TestYPosition(t *testing.T) {
	tests := []struct {
		name     string
		viewport uint8
		pixel    uint8
		want     int
	}{
		{"above viewport", 0, 10, 500},
		{"on screen", 1, 10, 245},
		{"below viewport", 2, 10, -11},
		{"on the ground", 1, 63, 192},
		{"deep in a pit", 3, 200, -201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ramStub{addrYViewport: tt.viewport, addrYPixel: tt.pixel}
			assert.Equal(t, tt.want, YPosition(m))
		})
	}
}

func TestXPosition(t *testing.T) {
	assert.Equal(t, 40, XPosition(ramStub{addrXPage: 0, addrXPixel: 40}))
	assert.Equal(t, 0x210, XPosition(ramStub{addrXPage: 2, addrXPixel: 0x10}))
	assert.Equal(t, 0x7FF, XPosition(ramStub{addrXPage: 7, addrXPixel: 0xFF}))
}

func TestDigitCounters(t *testing.T) {
	m := ramStub{
		addrTimeDigits: 4, addrTimeDigits + 1: 0, addrTimeDigits + 2: 1,
		addrCoinDigits: 4, addrCoinDigits + 1: 2,
		addrScoreDigits:     0,
		addrScoreDigits + 1: 1,
		addrScoreDigits + 2: 2,
		addrScoreDigits + 3: 3,
		addrScoreDigits + 4: 4,
		addrScoreDigits + 5: 5,
	}

	assert.Equal(t, 401, Time(m))

	st := Decode(m)
	assert.Equal(t, 401, st.Time)
	assert.Equal(t, 42, st.Coins)
	assert.Equal(t, 12345, st.Score)
}

func TestDecodeStatus(t *testing.T) {
	assert.Equal(t, StatusSmall, DecodeStatus(0))
	assert.Equal(t, StatusTall, DecodeStatus(1))
	assert.Equal(t, StatusFireball, DecodeStatus(2))
	assert.Equal(t, StatusFireball, DecodeStatus(9))
}

func TestPlayerStateBusy(t *testing.T) {
	busy := []PlayerState{
		StateLeftmostOfScreen, StateClimbingVine, StateEnteringPipe,
		StateGoingDownPipe, StateAutoWalk, StateAutoWalkCutscene,
		StateEnteringArea,
	}
	for _, st := range busy {
		if !st.Busy() {
			t.Errorf("state %#02x should be busy", uint8(st))
		}
	}

	free := []PlayerState{StateDead, StateNormal, StateCannotMove, StateDying, StatePaletteCycling}
	for _, st := range free {
		if st.Busy() {
			t.Errorf("state %#02x should not be busy", uint8(st))
		}
	}
}

func TestStageOverNeedsFlagContext(t *testing.T) {
	// A vine climb also drives the float state to 3; without a flagpole
	// or Bowser in an enemy slot the stage is not ending.
	m := ramStub{addrFloatState: flagpoleFloatState}
	assert.False(t, Decode(m).FlagGet)

	m[addrEnemySlots+2] = enemyFlagpole
	assert.True(t, Decode(m).FlagGet)

	m[addrEnemySlots+2] = enemyBowser
	assert.True(t, Decode(m).FlagGet)

	m[addrFloatState] = 0
	assert.False(t, Decode(m).FlagGet)
}

func TestDecode(t *testing.T) {
	m := ramStub{
		addrWorld: 3, addrStage: 1, addrArea: 2,
		addrXPage: 1, addrXPixel: 0x20,
		addrYViewport: 1, addrYPixel: 100,
		addrPlayerStatus: 1,
		addrPlayerState:  uint8(StateNormal),
		addrLives:        2,
		addrTimeDigits:   3, addrTimeDigits + 1: 5, addrTimeDigits + 2: 0,
	}

	st := Decode(m)
	assert.Equal(t, 4, st.World)
	assert.Equal(t, 2, st.Stage)
	assert.Equal(t, 3, st.Area)
	assert.Equal(t, 13, st.Level)
	assert.Equal(t, 0x120, st.XPos)
	assert.Equal(t, 155, st.YPos)
	assert.Equal(t, StatusTall, st.Status)
	assert.Equal(t, 2, st.Life)
	assert.Equal(t, 350, st.Time)
	assert.False(t, st.IsDying)
	assert.False(t, st.IsDead)
	assert.False(t, st.IsGameOver)
	assert.False(t, st.FlagGet)

	// Decoding is a pure function of the snapshot.
	assert.Equal(t, st, Decode(m))
}

func TestDecodeTerminalFlags(t *testing.T) {
	assert.True(t, Decode(ramStub{addrPlayerState: uint8(StateDying)}).IsDying)
	assert.True(t, Decode(ramStub{addrYViewport: 2}).IsDying)
	assert.True(t, Decode(ramStub{addrPlayerState: uint8(StateDead)}).IsDead)
	assert.True(t, Decode(ramStub{addrLives: 0xFF}).IsGameOver)

	worldOver := Decode(ramStub{addrGameMode: gameModeEndOfWorld})
	assert.True(t, worldOver.IsWorldOver)
	assert.True(t, worldOver.FlagGet)
}
