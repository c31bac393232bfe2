package nes

import "strings"

// Buttons is a controller state bitmask in NES button order:
// A, B, Select, Start, Up, Down, Left, Right.
type Buttons uint8

const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// NoInput is the empty controller state used for no-op frames.
const NoInput Buttons = 0

var buttonNames = []struct {
	mask Buttons
	name string
}{
	{ButtonA, "A"},
	{ButtonB, "B"},
	{ButtonSelect, "select"},
	{ButtonStart, "start"},
	{ButtonUp, "up"},
	{ButtonDown, "down"},
	{ButtonLeft, "left"},
	{ButtonRight, "right"},
}

// Has reports whether all buttons in mask are held.
func (b Buttons) Has(mask Buttons) bool {
	return b&mask == mask
}

// String returns a readable form such as "A+right" or "NOOP".
func (b Buttons) String() string {
	if b == NoInput {
		return "NOOP"
	}
	var parts []string
	for _, bn := range buttonNames {
		if b&bn.mask != 0 {
			parts = append(parts, bn.name)
		}
	}
	return strings.Join(parts, "+")
}
