// Package pcm converts samples between 16-bit PCM, other integer depths and
// unit-range floats.
package pcm

import "math"

// FloatScale normalizes 16-bit range to [-1.0, 1.0).
// FloatScale = 1.0 / (1 << 15)
const FloatScale = float32(1.0 / 32768.0)

// clip16 clips and rounds a float32 to int16 range.
// Ties round to even.
func clip16(sample float32) int16 {
	if sample >= 32767.0 {
		return 32767
	}
	if sample <= -32768.0 {
		return -32768
	}
	return int16(math.RoundToEven(float64(sample)))
}

// ToFloat converts a 16-bit sample to unit range.
func ToFloat(s int16) float32 {
	return float32(s) * FloatScale
}

// FromFloat converts a unit-range sample to 16 bits, clipping values
// outside [-1.0, 1.0).
func FromFloat(x float32) int16 {
	return clip16(x * 32768)
}

// Rescale converts an integer sample of the given bit depth to 16 bits.
// Deeper samples are rounded, shallower ones are shifted up. 8-bit samples
// are unsigned, centered on 128, as stored in WAV files.
func Rescale(v int, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return clip16(float32(v))
	case bitDepth == 8:
		return clip16(float32((v - 128) << 8))
	case bitDepth > 16:
		return clip16(float32(float64(v) / float64(int64(1)<<(bitDepth-16))))
	case bitDepth > 0:
		return clip16(float32(v << (16 - bitDepth)))
	default:
		return 0
	}
}
