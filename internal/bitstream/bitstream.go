package bitstream

import (
	"math"

	"github.com/llehouerou/go-timecode/internal/bits"
	"github.com/llehouerou/go-timecode/internal/lfsr"
)

// Bitstream turns a directional sequence of observed bits into a position.
//
// Every cycle of the signal carries the MSB of its LFSR state. Reading
// forwards, each new bit is the next feedback bit, so shifting it in at the
// MSB rebuilds the state of the cycle just read. Reading backwards, the bits
// arrive in reverse and are shifted in at the LSB. After width reads that
// register holds the state of the cycle read width-1 steps earlier, so the
// backward register is kept width-1 steps ahead and positions are corrected
// on the way out.
//
// When the direction changes the needle crosses the same cycle again, so the
// register is realigned to the other convention and the re-read bit must
// match the bit already known for that cycle.
type Bitstream struct {
	table          *Table
	validPositions uint32
	reg            lfsr.Register
	backward       bool
	validBits      int
}

// New creates a bitstream over table. Positions at or beyond validPositions
// are reported as invalid.
func New(table *Table, validPositions uint32) *Bitstream {
	return &Bitstream{
		table:          table,
		validPositions: validPositions,
		reg:            lfsr.New(table.width, table.taps, table.seed),
	}
}

// ProcessBit feeds one observed bit read while moving in the given
// direction. It returns false if the bit contradicts the LFSR, in which
// case the bitstream stays invalid until width consistent bits have been
// seen. A mismatch is a signal problem, not an error.
func (b *Bitstream) ProcessBit(bit uint32, backward bool) bool {
	bit &= 1
	w := b.table.width

	if backward != b.backward {
		b.realign(backward)
		state := b.reg.State()
		var known uint32
		if backward {
			known = bits.LSB(state)
		} else {
			known = bits.MSB(w, state)
		}
		if bit == known {
			b.countValid()
			return true
		}
		if backward {
			b.reg.SetState(state&^1 | bit)
		} else {
			b.reg.SetState(state&^(1<<(w-1)) | bit<<(w-1))
		}
		b.validBits = 1
		return false
	}

	var expected uint32
	if backward {
		expected = b.reg.PreviousBit()
		b.reg.Unshift(bit)
	} else {
		expected = b.reg.NextBit()
		b.reg.Shift(bit)
	}
	if bit != expected {
		// Discard all previously processed bits.
		b.validBits = 1
		return false
	}
	b.countValid()
	return true
}

func (b *Bitstream) countValid() {
	if b.validBits < math.MaxInt32 {
		b.validBits++
	}
}

// realign converts the register between the forward convention (state of
// the current cycle) and the backward one (width-1 cycles ahead).
func (b *Bitstream) realign(backward bool) {
	w := b.table.width
	state := b.reg.State()
	for i := uint(1); i < w; i++ {
		if backward {
			state = lfsr.Next(state, b.table.taps, w)
		} else {
			state = lfsr.Previous(state, b.table.taps, w)
		}
	}
	b.reg.SetState(state)
	b.backward = backward
}

// Position returns the position of the cycle read last. The boolean is
// false if the register does not map to any position; use IsValid to decide
// whether the position can be trusted.
func (b *Bitstream) Position() (uint32, bool) {
	p, ok := b.table.Position(b.reg.State())
	if !ok {
		return 0, false
	}
	if b.backward {
		n := b.table.Len()
		p = (p + n - uint32(b.table.width-1)) % n
	}
	return p, true
}

// IsValid reports whether at least width consecutive bits were consistent
// and the position lies within the valid range.
func (b *Bitstream) IsValid() bool {
	if b.validBits < int(b.table.width) {
		return false
	}
	p, ok := b.Position()
	return ok && p < b.validPositions
}

// ValidBits returns the number of consecutive consistent bits.
func (b *Bitstream) ValidBits() int { return b.validBits }

// Backward reports which convention the register currently follows.
func (b *Bitstream) Backward() bool { return b.backward }

// State returns the raw register contents.
func (b *Bitstream) State() uint32 { return b.reg.State() }

// Reset places the bitstream at a known position, reading forwards, and
// marks it valid.
func (b *Bitstream) Reset(position uint32) error {
	state, err := b.table.State(position)
	if err != nil {
		return err
	}
	b.reg.SetState(state)
	b.backward = false
	b.validBits = int(b.table.width)
	return nil
}
