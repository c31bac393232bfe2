package nes

// Discrete action sets for agents that pick from a fixed list of button
// combinations instead of emitting raw bitmasks. The index into a set is
// the agent's action id.
var (
	// RightOnly limits the agent to rightward movement.
	RightOnly = []Buttons{
		NoInput,
		ButtonRight,
		ButtonRight | ButtonA,
		ButtonRight | ButtonB,
		ButtonRight | ButtonA | ButtonB,
	}

	// SimpleMovement adds jumping in place and leftward movement.
	SimpleMovement = append(append([]Buttons{}, RightOnly...),
		ButtonA,
		ButtonLeft,
	)

	// ComplexMovement covers both directions plus crouching and climbing.
	ComplexMovement = append(append([]Buttons{}, SimpleMovement...),
		ButtonLeft|ButtonA,
		ButtonLeft|ButtonB,
		ButtonLeft|ButtonA|ButtonB,
		ButtonDown,
		ButtonUp,
	)
)
