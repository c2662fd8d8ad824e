// Package lfsr implements a reversible Fibonacci linear feedback shift register.
//
// An n-bit register shifts right by one on every clock. The bit pushed out at
// the LSB is the output bit, and the feedback bit inserted at the MSB is the
// parity of the tapped state bits:
//
//	     MSB                              LSB
//	    ┌─────┐         ┌───┐  ┌───┐  ┌───┐
//	┌──▶│ sₙ₋₁├┬─▶ … ─▶│ s₂├┬▶│ s₁├┬▶│ s₀├┬──▶ output
//	│   └─────┘│        └───┘│ └───┘│ └───┘│
//	│          ⊗ ◀─pₙ₋₁      ⊗ ◀─p₂ ⊗ ◀─p₁ ⊗ ◀─p₀
//	│          ▼             ▼      ▼      │
//	└─────────╴⊕ ◀─ … ◀──────⊕ ◀────⊕ ◀────┘
//
// Because the tap p₀ on the output bit is always set, the output bit can be
// recovered from the new state, which makes every step exactly reversible.
//
// Example: the taps 0b00011101 describe the feedback polynomial
// x⁸ + x⁶ + x⁵ + x⁴ + 1.
package lfsr

import "github.com/llehouerou/go-timecode/internal/bits"

// Next returns the state following state.
func Next(state, taps uint32, width uint) uint32 {
	return bits.InsertMSB(width, state, bits.Parity(state&taps))
}

// Previous returns the state preceding state. It is the exact inverse of
// Next as long as bit 0 of taps is set.
//
// After a step the tapped bits p₁…pₙ₋₁ sit one position further right and
// the feedback bit is the new MSB, so rotating the taps right by one lines
// them up with the shifted state. Their parity is the discarded output bit.
func Previous(state, taps uint32, width uint) uint32 {
	return bits.InsertLSB(width, state, bits.Parity(state&bits.RotateRight(width, taps)))
}

// Register is a Fibonacci LFSR with its current state.
type Register struct {
	width uint
	taps  uint32
	state uint32
}

// New creates a register. The caller is responsible for a valid width, taps
// and a non-zero seed; see Validate.
func New(width uint, taps, seed uint32) Register {
	return Register{width: width, taps: taps, state: seed}
}

// State returns the current register contents.
func (r *Register) State() uint32 { return r.state }

// SetState overwrites the register contents.
func (r *Register) SetState(state uint32) { r.state = state & bits.Mask(r.width) }

// PeekNext returns the next state without changing the register.
func (r *Register) PeekNext() uint32 {
	return Next(r.state, r.taps, r.width)
}

// PeekPrevious returns the previous state without changing the register.
func (r *Register) PeekPrevious() uint32 {
	return Previous(r.state, r.taps, r.width)
}

// Advance steps the register forward and returns the new state.
//
// The all-zero state is a fixed point that never occurs in a maximal-length
// sequence; reaching it means the register was corrupted.
func (r *Register) Advance() uint32 {
	if r.state == 0 {
		panic("lfsr: advance from reserved all-zero state")
	}
	r.state = r.PeekNext()
	return r.state
}

// Revert steps the register backward and returns the new state.
func (r *Register) Revert() uint32 {
	if r.state == 0 {
		panic("lfsr: revert from reserved all-zero state")
	}
	r.state = r.PeekPrevious()
	return r.state
}

// Shift inserts an observed bit at the MSB, discarding the LSB. When bit
// equals the feedback bit this is the same as Advance.
func (r *Register) Shift(bit uint32) uint32 {
	r.state = bits.InsertMSB(r.width, r.state, bit)
	return r.state
}

// Unshift inserts an observed bit at the LSB, discarding the MSB. When bit
// equals the recovered output bit this is the same as Revert.
func (r *Register) Unshift(bit uint32) uint32 {
	r.state = bits.InsertLSB(r.width, r.state, bit)
	return r.state
}

// NextBit returns the feedback bit the next Advance would insert.
func (r *Register) NextBit() uint32 {
	return bits.Parity(r.state & r.taps)
}

// PreviousBit returns the LSB the next Revert would restore.
func (r *Register) PreviousBit() uint32 {
	return bits.Parity(r.state & bits.RotateRight(r.width, r.taps))
}

// Period returns the number of steps until the register starting at seed
// returns to seed, giving up after limit steps (returning 0).
func Period(width uint, taps, seed uint32, limit uint64) uint64 {
	state := seed
	for n := uint64(1); n <= limit; n++ {
		state = Next(state, taps, width)
		if state == seed {
			return n
		}
	}
	return 0
}

// Validate reports whether width, taps and seed describe a reversible
// register that can start from seed.
func Validate(width uint, taps, seed uint32) bool {
	if width < 2 || width > bits.MaxWidth {
		return false
	}
	mask := bits.Mask(width)
	return taps&1 == 1 && taps&^mask == 0 && seed != 0 && seed&^mask == 0
}
