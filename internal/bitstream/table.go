// Package bitstream maps observed timecode bits to absolute positions.
//
// A Table enumerates every state of a maximal-length LFSR once, starting at
// the seed, so that a register state can be turned into a position and back.
// A Bitstream feeds observed bits through a register and checks them against
// the LFSR's own prediction to decide whether the position can be trusted.
package bitstream

import (
	"errors"
	"math"

	"github.com/llehouerou/go-timecode/internal/bits"
	"github.com/llehouerou/go-timecode/internal/lfsr"
)

// MaxWidth is the widest register a Table can enumerate.
const MaxWidth = 24

// Table errors.
var (
	// ErrInvalidRegister indicates width, taps or seed cannot describe a reversible LFSR.
	ErrInvalidRegister = errors.New("bitstream: invalid register parameters")

	// ErrNotMaximal indicates the LFSR does not visit all 2^width - 1 states.
	ErrNotMaximal = errors.New("bitstream: LFSR is not maximal length")

	// ErrPositionOutOfRange indicates a position beyond the LFSR period.
	ErrPositionOutOfRange = errors.New("bitstream: position out of range")
)

const noPosition = math.MaxUint32

// Table is an immutable two-way lookup between positions and LFSR states.
// It is safe for concurrent use.
type Table struct {
	width     uint
	taps      uint32
	seed      uint32
	states    []uint32 // position -> state
	positions []uint32 // state -> position
}

// NewTable enumerates the LFSR described by width and taps starting at seed.
func NewTable(width uint, taps, seed uint32) (*Table, error) {
	if width > MaxWidth || !lfsr.Validate(width, taps, seed) {
		return nil, ErrInvalidRegister
	}

	period := int(bits.Mask(width))
	t := &Table{
		width:     width,
		taps:      taps,
		seed:      seed,
		states:    make([]uint32, period),
		positions: make([]uint32, period+1),
	}
	for i := range t.positions {
		t.positions[i] = noPosition
	}

	state := seed
	for i := 0; i < period; i++ {
		if t.positions[state] != noPosition {
			return nil, ErrNotMaximal
		}
		t.states[i] = state
		t.positions[state] = uint32(i)
		state = lfsr.Next(state, taps, width)
	}
	if state != seed {
		return nil, ErrNotMaximal
	}
	return t, nil
}

// Len returns the LFSR period, 2^width - 1.
func (t *Table) Len() uint32 { return uint32(len(t.states)) }

// State returns the register state at position.
func (t *Table) State(position uint32) (uint32, error) {
	if position >= t.Len() {
		return 0, ErrPositionOutOfRange
	}
	return t.states[position], nil
}

// Position returns the position of state. The all-zero state has none.
func (t *Table) Position(state uint32) (uint32, bool) {
	if state >= uint32(len(t.positions)) {
		return 0, false
	}
	p := t.positions[state]
	return p, p != noPosition
}

// Bit returns the bit transmitted for the cycle at position, which is the
// most recently inserted feedback bit of that state.
func (t *Table) Bit(position uint32) uint32 {
	return bits.MSB(t.width, t.states[position%t.Len()])
}
