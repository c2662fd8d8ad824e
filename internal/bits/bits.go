// Package bits provides low level operations on fixed-width shift registers.
//
// A register of width n occupies the n least significant bits of a uint32.
// Bits above the width are always zero.
package bits

import mathbits "math/bits"

// MaxWidth is the widest register supported by the helpers.
const MaxWidth = 31

// Mask returns 2^width - 1.
func Mask(width uint) uint32 {
	return (1 << width) - 1
}

// InsertMSB shifts data right by one and sets bit as the new MSB.
// The previous LSB is discarded.
func InsertMSB(width uint, data, bit uint32) uint32 {
	return (bit&1)<<(width-1) | data>>1
}

// InsertLSB shifts data left by one and sets bit as the new LSB.
// The previous MSB is discarded.
func InsertLSB(width uint, data, bit uint32) uint32 {
	return (data<<1)&Mask(width) | bit&1
}

// MSB returns the most significant bit of a width-bit value.
func MSB(width uint, data uint32) uint32 {
	return (data >> (width - 1)) & 1
}

// LSB returns the least significant bit.
func LSB(data uint32) uint32 {
	return data & 1
}

// RotateLeft moves the MSB to the LSB and shifts everything else left.
func RotateLeft(width uint, data uint32) uint32 {
	return InsertLSB(width, data, MSB(width, data))
}

// RotateRight moves the LSB to the MSB and shifts everything else right.
func RotateRight(width uint, data uint32) uint32 {
	return InsertMSB(width, data, LSB(data))
}

// Parity returns 1 if data has an odd number of set bits, 0 otherwise.
func Parity(data uint32) uint32 {
	return uint32(mathbits.OnesCount32(data) & 1)
}
