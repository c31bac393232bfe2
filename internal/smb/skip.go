package smb

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/nesrl/smbenv/internal/nes"
)

// maxSkipFrames caps the fast-forward loops. The reference behavior is an
// unbounded loop; the cap sits far beyond any legitimate cutscene (about
// 4.8 hours of emulated time) so it only trips on a wedged emulator.
const maxSkipFrames = 1 << 20

// warnAfterFrames is when a still-running skip loop is first logged.
const warnAfterFrames = 3600

// ErrEmulatorStuck reports that RAM never reached a terminating condition
// while fast-forwarding through a non-playable state. It is fatal for the
// episode; the emulator should be reset or discarded.
var ErrEmulatorStuck = errors.New("smb: emulator stuck in a non-playable state")

// skipper drives repeated frame advances to fast-forward the emulator
// through states that are not meaningfully interactive. It holds no state
// of its own; every loop iteration re-reads RAM.
type skipper struct {
	em     nes.Emulator
	target *Target
	logger *log.Logger
}

func (s *skipper) pressAndRelease(b nes.Buttons) {
	s.em.FrameAdvance(b)
	s.em.FrameAdvance(nes.NoInput)
}

// writeStage force-writes the target world, stage and area so the game
// loads the configured stage instead of the next sequential one.
func (s *skipper) writeStage() {
	if s.target == nil {
		return
	}
	s.em.Write(addrWorld, uint8(s.target.World-1))
	s.em.Write(addrStage, uint8(s.target.Stage-1))
	s.em.Write(addrArea, uint8(s.target.Area-1))
}

// runoutPrelevelTimer forces the pre-level countdown to zero so the next
// frame loads the stage.
func (s *skipper) runoutPrelevelTimer() {
	s.em.Write(addrPrelevelTimer, 0)
}

// skipStartScreen presses Start past the title screen and runs the game up
// to the first controllable frame. On return the in-game clock holds the
// episode's starting value.
func (s *skipper) skipStartScreen() error {
	s.pressAndRelease(nes.ButtonStart)

	// Press Start until the clock starts, hacking in the target stage and
	// running out the pre-level countdown on every press.
	frames := 0
	for Time(s.em) == 0 {
		s.em.FrameAdvance(nes.ButtonStart)
		s.writeStage()
		s.em.FrameAdvance(nes.NoInput)
		s.runoutPrelevelTimer()
		if frames += 2; frames > maxSkipFrames {
			return ErrEmulatorStuck
		}
		if frames == warnAfterFrames {
			s.logger.Warn("start screen skip still running", "frames", frames)
		}
	}

	// Idle until the clock ticks down once, flushing residual startup
	// animation frames.
	last := Time(s.em)
	for Time(s.em) >= last {
		last = Time(s.em)
		s.pressAndRelease(nes.ButtonStart)
		if frames += 2; frames > maxSkipFrames {
			return ErrEmulatorStuck
		}
	}
	return nil
}

// killMario truncates the death animation by forcing the player state to
// dead and advancing a single frame.
func (s *skipper) killMario() {
	s.em.Write(addrPlayerState, uint8(StateDead))
	s.em.FrameAdvance(nes.NoInput)
}

// skipEndOfWorld fast-forwards the cutscene at the end of a world. The
// clock is frozen during the scene, so the first change marks its end.
func (s *skipper) skipEndOfWorld() error {
	if s.em.Read(addrGameMode) != gameModeEndOfWorld {
		return nil
	}
	before := Time(s.em)
	for frames := 0; Time(s.em) == before; frames++ {
		s.em.FrameAdvance(nes.NoInput)
		if frames > maxSkipFrames {
			return ErrEmulatorStuck
		}
		if frames == warnAfterFrames {
			s.logger.Warn("end-of-world skip still running", "frames", frames)
		}
	}
	return nil
}

// skipChangeArea collapses a pending area transition into a single tick.
func (s *skipper) skipChangeArea() {
	timer := s.em.Read(addrChangeAreaTimer)
	if timer > 1 && timer < 255 {
		s.em.Write(addrChangeAreaTimer, 1)
	}
}

// skipOccupiedStates advances through busy player states (the black
// between-lives screen, pipe walks, scripted sequences) and lingering
// end-of-world frames, running out the pre-level timer as it goes.
func (s *skipper) skipOccupiedStates() error {
	for frames := 0; ; frames++ {
		st := PlayerState(s.em.Read(addrPlayerState))
		if !st.Busy() && s.em.Read(addrGameMode) != gameModeEndOfWorld {
			return nil
		}
		s.runoutPrelevelTimer()
		s.em.FrameAdvance(nes.NoInput)
		if frames > maxSkipFrames {
			return ErrEmulatorStuck
		}
		if frames == warnAfterFrames {
			s.logger.Warn("busy-state skip still running",
				"frames", frames, "player_state", uint8(st))
		}
	}
}

// postStep runs the per-step fast-forwarding. It is skipped entirely when
// the episode just ended, since a reset replays the start sequence anyway.
// The end-of-world skip must run before the others and only applies to
// full-game episodes; a single-stage episode terminates on the flag
// instead.
func (s *skipper) postStep(willReset bool) error {
	if willReset {
		return nil
	}
	if Decode(s.em).IsDying {
		s.killMario()
	}
	if s.target == nil {
		if err := s.skipEndOfWorld(); err != nil {
			return err
		}
	}
	s.skipChangeArea()
	return s.skipOccupiedStates()
}
