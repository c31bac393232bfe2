// Package nes defines the capability interface the environment core expects
// from a NES emulator, together with the controller button encoding.
// The core never owns emulation; it drives any implementation of Emulator.
package nes

// Screen dimensions of the NES picture output.
const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// Memory is a read-only view of the console's byte-addressable memory.
type Memory interface {
	// Read returns the byte at the given CPU address.
	Read(addr uint16) uint8
}

// Emulator is the contract between the environment core and the emulation
// backend. One Emulator instance backs exactly one environment instance;
// all calls are synchronous and single-threaded.
type Emulator interface {
	Memory

	// Write stores a byte at the given CPU address. The core uses this only
	// for a small set of deliberate RAM hacks (stage targeting, timer
	// run-out, death truncation).
	Write(addr uint16, value uint8)

	// FrameAdvance runs emulation for exactly one frame with the given
	// controller input held for its duration.
	FrameAdvance(buttons Buttons)

	// Reset performs a console reset, restoring power-on memory state.
	Reset()

	// Screen returns the current frame as ScreenWidth*ScreenHeight RGB
	// triplets, row major. The returned slice is owned by the emulator and
	// only valid until the next FrameAdvance.
	Screen() []uint8

	// Close releases emulator resources. The emulator must not be used
	// afterwards.
	Close() error
}
