// Package sim implements a scripted stand-in for a real console backend.
// It models just enough of the game's RAM behavior (title screen,
// pre-level countdown, clock, movement, flag, deaths and lives) for the
// environment's skip and reward logic to run against, fully
// deterministically and without a ROM.
package sim

import (
	"github.com/nesrl/smbenv/internal/nes"
)

// RAM addresses the simulation maintains. They mirror the layout the
// decoder reads, so the two packages agree by construction of the game,
// not by sharing constants.
const (
	addrPlayerState     = 0x000E
	addrEnemySlots      = 0x0016
	addrFloatState      = 0x001D
	addrXPage           = 0x006D
	addrXPixel          = 0x0086
	addrYViewport       = 0x00B5
	addrYPixel          = 0x03B8
	addrPlayerStatus    = 0x0756
	addrLives           = 0x075A
	addrStage           = 0x075C
	addrWorld           = 0x075F
	addrArea            = 0x0760
	addrChangeAreaTimer = 0x06DE
	addrGameMode        = 0x0770
	addrPrelevelTimer   = 0x07A0
	addrScoreDigits     = 0x07DE
	addrCoinDigits      = 0x07ED
	addrTimeDigits      = 0x07F8
)

const (
	stateLeftmost = 0x00
	stateAutoWalk = 0x04
	stateDead     = 0x06
	stateNormal   = 0x08
	stateDying    = 0x0B

	enemyFlagpole = 0x31

	gameModeStandard   = 1
	gameModeEndOfWorld = 2
)

const ramSize = 0x800

// phase is the coarse machine state driving per-frame behavior. RAM stays
// authoritative for everything the decoder reads; the phase only sequences
// transitions between those RAM states.
type phase int

const (
	phaseTitle phase = iota
	phasePrelevel
	phaseLockout
	phasePlaying
	phaseDying
	phaseDead
	phaseCutscene
	phaseEndOfWorld
	phaseGameOver
)

const (
	startingLives  = 2
	startingTime   = 401
	startingXPixel = 40
	groundYPixel   = 192

	prelevelFrames   = 7
	lockoutFrames    = 2
	timeTickFrames   = 24
	dyingFrames      = 40
	cutsceneFrames   = 30
	endOfWorldFrames = 60
	jumpFrames       = 24
)

// defaultFlagX is where the end-of-stage flagpole stands when Options
// does not move it.
const defaultFlagX = 3161

// Options tunes the simulated game.
type Options struct {
	// FlagX is the horizontal position of the flagpole in every stage.
	// Zero keeps the default.
	FlagX int
}

// Sim is a deterministic simulated console. It implements nes.Emulator.
// Given the same input sequence after Reset, every RAM read and frame is
// identical.
type Sim struct {
	ram   [ramSize]uint8
	frame []uint8

	phase   phase
	counter int // frames left in the current timed phase
	frames  int // playing frames since the last clock tick
	air     int // frames left in the current jump arc
	paused  bool
	prev    nes.Buttons

	flagX int
}

// New creates a simulated console sitting at the title screen.
func New(opts Options) *Sim {
	s := &Sim{
		frame: make([]uint8, nes.ScreenWidth*nes.ScreenHeight*3),
		flagX: opts.FlagX,
	}
	if s.flagX == 0 {
		s.flagX = defaultFlagX
	}
	s.Reset()
	return s
}

// Read returns the RAM byte at addr. Addresses outside the 2 KiB work RAM
// read as zero.
func (s *Sim) Read(addr uint16) uint8 {
	if int(addr) >= ramSize {
		return 0
	}
	return s.ram[addr]
}

// Write stores a RAM byte, the hook the environment uses to hack state.
// Writes to the player state byte also resequence the machine, matching
// how the real game reacts to a forced death.
func (s *Sim) Write(addr uint16, value uint8) {
	if int(addr) >= ramSize {
		return
	}
	s.ram[addr] = value
	if addr == addrPlayerState {
		switch value {
		case stateDead:
			// The dead state holds for one frame before the game starts
			// processing the lost life.
			s.phase = phaseDead
			s.counter = 1
		case stateDying:
			s.phase = phaseDying
			s.counter = dyingFrames
		}
	}
}

// Reset returns the console to the title screen with cleared RAM.
func (s *Sim) Reset() {
	s.ram = [ramSize]uint8{}
	s.phase = phaseTitle
	s.counter = 0
	s.frames = 0
	s.air = 0
	s.paused = false
	s.prev = 0
}

// Close releases nothing; the simulation holds no external resources.
func (s *Sim) Close() error {
	return nil
}

// FrameAdvance runs one frame with the given buttons held.
func (s *Sim) FrameAdvance(buttons nes.Buttons) {
	pressed := buttons &^ s.prev
	s.prev = buttons

	switch s.phase {
	case phaseTitle:
		if pressed.Has(nes.ButtonStart) {
			s.ram[addrLives] = startingLives
			s.enterPrelevel(stateLeftmost)
		}

	case phasePrelevel:
		// The countdown lives in RAM so it can be run out externally.
		if s.ram[addrPrelevelTimer] == 0 {
			s.loadLevel()
		} else {
			s.ram[addrPrelevelTimer]--
		}

	case phaseLockout:
		// Input is dead for a couple of frames after a level loads;
		// the clock takes its first tick when control is handed over.
		if s.counter--; s.counter <= 0 {
			s.phase = phasePlaying
			s.frames = 0
			s.tickClock()
		}

	case phasePlaying:
		s.playFrame(buttons, pressed)

	case phaseDying:
		if s.counter--; s.counter <= 0 {
			s.Write(addrPlayerState, stateDead)
		}

	case phaseDead:
		if s.counter > 0 {
			s.counter--
			break
		}
		if s.ram[addrLives] == 0 {
			s.ram[addrLives] = 0xFF
			s.phase = phaseGameOver
		} else {
			s.ram[addrLives]--
			s.enterPrelevel(stateLeftmost)
		}

	case phaseCutscene:
		if s.counter--; s.counter <= 0 {
			s.ram[addrEnemySlots] = 0
			s.ram[addrFloatState] = 0
			s.advanceStage()
		}

	case phaseEndOfWorld:
		if s.counter--; s.counter <= 0 {
			s.ram[addrGameMode] = gameModeStandard
			s.enterPrelevel(stateLeftmost)
		}

	case phaseGameOver:
		// Only Reset leaves this state.
	}
}

// Screen renders the frame as a flat RGB buffer derived from RAM, so
// observations are a pure function of game state.
func (s *Sim) Screen() []uint8 {
	r := s.ram[addrWorld]*32 + s.ram[addrStage]*8
	g := s.ram[addrXPixel]
	b := s.ram[addrTimeDigits+2] * 25
	for i := 0; i < len(s.frame); i += 3 {
		s.frame[i] = r
		s.frame[i+1] = g
		s.frame[i+2] = b
	}
	return s.frame
}

func (s *Sim) enterPrelevel(playerState uint8) {
	s.ram[addrPlayerState] = playerState
	s.ram[addrPrelevelTimer] = prelevelFrames
	s.phase = phasePrelevel
}

// loadLevel latches the world, stage and area bytes already in RAM (the
// environment may have hacked them) and places the player at the start of
// the stage. The clock loads one above its displayed starting value; it
// ticks down to it when gameplay begins.
func (s *Sim) loadLevel() {
	s.ram[addrGameMode] = gameModeStandard
	s.ram[addrXPage] = 0
	s.ram[addrXPixel] = startingXPixel
	s.ram[addrYViewport] = 1
	s.ram[addrYPixel] = groundYPixel
	s.ram[addrPlayerState] = stateNormal
	s.setClock(startingTime)
	s.paused = false
	s.air = 0
	s.counter = lockoutFrames
	s.phase = phaseLockout
}

func (s *Sim) playFrame(buttons, pressed nes.Buttons) {
	if pressed.Has(nes.ButtonStart) {
		s.paused = !s.paused
	}
	if s.paused {
		return
	}

	s.move(buttons)

	if s.xPos() >= s.flagX {
		s.ram[addrEnemySlots] = enemyFlagpole
		s.ram[addrFloatState] = 3
		s.ram[addrPlayerState] = stateAutoWalk
		s.counter = cutsceneFrames
		s.phase = phaseCutscene
		return
	}

	if s.frames++; s.frames >= timeTickFrames {
		s.frames = 0
		s.tickClock()
		if s.clock() == 0 {
			s.Write(addrPlayerState, stateDying)
		}
	}
}

func (s *Sim) move(buttons nes.Buttons) {
	dx := 0
	if buttons.Has(nes.ButtonRight) {
		dx = 1
	} else if buttons.Has(nes.ButtonLeft) {
		dx = -1
	}
	if dx != 0 && buttons.Has(nes.ButtonB) {
		dx *= 2
	}
	if x := s.xPos() + dx; x >= 0 {
		s.ram[addrXPage] = uint8(x >> 8)
		s.ram[addrXPixel] = uint8(x)
	}

	onGround := s.ram[addrYPixel] == groundYPixel
	if buttons.Has(nes.ButtonA) && onGround && s.air == 0 {
		s.air = jumpFrames
	}
	if s.air > 0 {
		if s.air > jumpFrames/2 {
			s.ram[addrYPixel] -= 3
		} else {
			s.ram[addrYPixel] += 3
		}
		s.air--
	}
}

// advanceStage moves to the next stage after a flag, rolling into the
// end-of-world celebration after the fourth.
func (s *Sim) advanceStage() {
	if s.ram[addrStage] == 3 {
		s.ram[addrStage] = 0
		s.ram[addrArea] = 0
		s.ram[addrWorld]++
		s.ram[addrGameMode] = gameModeEndOfWorld
		s.counter = endOfWorldFrames
		s.phase = phaseEndOfWorld
		return
	}
	s.ram[addrStage]++
	s.ram[addrArea] = s.ram[addrStage]
	s.enterPrelevel(stateLeftmost)
}

func (s *Sim) xPos() int {
	return int(s.ram[addrXPage])*0x100 + int(s.ram[addrXPixel])
}

func (s *Sim) clock() int {
	return int(s.ram[addrTimeDigits])*100 +
		int(s.ram[addrTimeDigits+1])*10 +
		int(s.ram[addrTimeDigits+2])
}

func (s *Sim) setClock(t int) {
	s.ram[addrTimeDigits] = uint8(t / 100 % 10)
	s.ram[addrTimeDigits+1] = uint8(t / 10 % 10)
	s.ram[addrTimeDigits+2] = uint8(t % 10)
}

func (s *Sim) tickClock() {
	if t := s.clock(); t > 0 {
		s.setClock(t - 1)
	}
}
