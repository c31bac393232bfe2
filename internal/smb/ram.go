// Package smb implements the Super Mario Bros environment core: decoding
// console RAM into game state, sequencing frame skips through non-playable
// emulator states, and deriving reward and termination for an episodic
// step/reset interface.
package smb

import "github.com/nesrl/smbenv/internal/nes"

// RAM addresses of the game state the environment reads or hacks.
const (
	addrPlayerState     = 0x000E // player animation/control state
	addrEnemySlots      = 0x0016 // five consecutive enemy type slots
	addrFloatState      = 0x001D // player float state, 3 while on flagpole
	addrXPage           = 0x006D // horizontal screen page counter
	addrXPixel          = 0x0086 // horizontal position within the page
	addrYViewport       = 0x00B5 // 1 on screen, 0 above, >1 below (pit)
	addrYPixel          = 0x03B8 // vertical pixel position
	addrPlayerStatus    = 0x0756 // 0 small, 1 tall, else fireball
	addrLives           = 0x075A // remaining lives, 0xFF once exhausted
	addrStage           = 0x075C // zero-based stage index
	addrWorld           = 0x075F // zero-based world index
	addrArea            = 0x0760 // zero-based area index
	addrChangeAreaTimer = 0x06DE // area transition countdown
	addrGameMode        = 0x0770 // 0 demo, 1 standard, 2 end of world
	addrPrelevelTimer   = 0x07A0 // countdown before a stage becomes playable
	addrScoreDigits     = 0x07DE // six decimal digit bytes
	addrCoinDigits      = 0x07ED // two decimal digit bytes
	addrTimeDigits      = 0x07F8 // three decimal digit bytes
)

const (
	gameModeEndOfWorld = 2
	livesExhausted     = 0xFF
	flagpoleFloatState = 3
)

// Enemy ids whose presence in a slot marks an imminent stage change.
// A vine also drives the float state to 3, so these are required context.
const (
	enemyBowser   = 0x2D
	enemyFlagpole = 0x31
)

const enemySlotCount = 5

// Status is the player's power-up status.
type Status string

const (
	StatusSmall    Status = "small"
	StatusTall     Status = "tall"
	StatusFireball Status = "fireball"
)

// PlayerState enumerates the player control states at addrPlayerState.
type PlayerState uint8

const (
	StateLeftmostOfScreen PlayerState = 0x00
	StateClimbingVine     PlayerState = 0x01
	StateEnteringPipe     PlayerState = 0x02
	StateGoingDownPipe    PlayerState = 0x03
	StateAutoWalk         PlayerState = 0x04
	StateAutoWalkCutscene PlayerState = 0x05
	StateDead             PlayerState = 0x06
	StateEnteringArea     PlayerState = 0x07
	StateNormal           PlayerState = 0x08
	StateCannotMove       PlayerState = 0x09
	StateDying            PlayerState = 0x0B
	StatePaletteCycling   PlayerState = 0x0C
)

// Busy reports whether the state is one in which input has no gameplay
// effect (menus, transitions, scripted sequences).
func (s PlayerState) Busy() bool {
	switch s {
	case StateLeftmostOfScreen, StateClimbingVine, StateEnteringPipe,
		StateGoingDownPipe, StateAutoWalk, StateAutoWalkCutscene,
		StateEnteringArea:
		return true
	}
	return false
}

// State is a decoded snapshot of the game. It is a pure function of the
// memory it was decoded from and carries no identity of its own.
type State struct {
	World int // 1-8
	Stage int // 1-4
	Area  int // 1-5
	Level int // zero-based world*4+stage

	XPos int
	YPos int

	Status      Status
	PlayerState PlayerState

	Life  int
	Score int
	Coins int
	Time  int

	IsDying     bool
	IsDead      bool
	IsGameOver  bool
	IsWorldOver bool
	IsStageOver bool
	FlagGet     bool
}

// Decode reads a full State from the given memory snapshot. Decoding the
// same snapshot twice yields identical results.
func Decode(m nes.Memory) State {
	st := State{
		World: int(m.Read(addrWorld)) + 1,
		Stage: int(m.Read(addrStage)) + 1,
		Area:  int(m.Read(addrArea)) + 1,
		Level: int(m.Read(addrWorld))*4 + int(m.Read(addrStage)),

		XPos: XPosition(m),
		YPos: YPosition(m),

		Status:      DecodeStatus(m.Read(addrPlayerStatus)),
		PlayerState: PlayerState(m.Read(addrPlayerState)),

		Life:  int(m.Read(addrLives)),
		Score: readDigits(m, addrScoreDigits, 6),
		Coins: readDigits(m, addrCoinDigits, 2),
		Time:  Time(m),
	}

	st.IsDying = st.PlayerState == StateDying || m.Read(addrYViewport) > 1
	st.IsDead = st.PlayerState == StateDead
	st.IsGameOver = m.Read(addrLives) == livesExhausted
	st.IsWorldOver = m.Read(addrGameMode) == gameModeEndOfWorld
	st.IsStageOver = stageOver(m)
	st.FlagGet = st.IsWorldOver || st.IsStageOver
	return st
}

// DecodeStatus maps the status byte to a power-up status. Unknown values
// decode as fireball.
func DecodeStatus(b uint8) Status {
	switch b {
	case 0:
		return StatusSmall
	case 1:
		return StatusTall
	default:
		return StatusFireball
	}
}

// XPosition combines the screen page counter with the intra-page offset.
func XPosition(m nes.Memory) int {
	return int(m.Read(addrXPage))*0x100 + int(m.Read(addrXPixel))
}

// YPosition converts the vertical pixel into a signed distance from the
// bottom of the screen, keyed by the viewport indicator: above the visible
// screen the position continues past 255, below it (falling into a pit) it
// goes negative.
func YPosition(m nes.Memory) int {
	pixel := int(m.Read(addrYPixel))
	switch viewport := m.Read(addrYViewport); {
	case viewport < 1:
		return 255 + (255 - pixel)
	case viewport > 1:
		return -pixel - 1
	default:
		return 255 - pixel
	}
}

// Time returns the in-game clock, a three decimal digit counter.
func Time(m nes.Memory) int {
	return readDigits(m, addrTimeDigits, 3)
}

// readDigits decodes a counter stored as length consecutive bytes, each
// holding a single decimal digit.
func readDigits(m nes.Memory, addr uint16, length int) int {
	v := 0
	for i := 0; i < length; i++ {
		v = v*10 + int(m.Read(addr+uint16(i)))
	}
	return v
}

// stageOver reports whether the stage is ending. The float state alone is
// not enough: climbing a vine also sets it to 3, so a Bowser or flagpole
// enemy slot must confirm the context.
func stageOver(m nes.Memory) bool {
	for i := uint16(0); i < enemySlotCount; i++ {
		switch m.Read(addrEnemySlots + i) {
		case enemyBowser, enemyFlagpole:
			return m.Read(addrFloatState) == flagpoleFloatState
		}
	}
	return false
}
