// Package visualizer draws a stereo timecode signal as an X/Y scope.
//
// A clean timecode signal traces a ring (the "donut"): the two channels are
// a quarter cycle apart, and the radius alternates between the two bit
// amplitudes. Distortion, noise or a swapped channel shows up as a
// deformed ring.
package visualizer

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DecayInterval is the number of samples drawn between two decays.
	DecayInterval = 50

	// DecayFactor is applied to every pixel on decay.
	DecayFactor = 0.95

	// MinSize is the exclusive lower bound of the scope size.
	MinSize = 10
)

// ErrInvalidSize is returned for a scope size that is odd or too small.
var ErrInvalidSize = errors.New("visualizer: size must be even and greater than 10")

// ErrBufferSize is returned when a pixel buffer does not match the scope.
var ErrBufferSize = errors.New("visualizer: buffer does not match scope size")

// Visualizer plots sample pairs onto a square grayscale pixel buffer of
// Size() x Size() bytes, row-major. The left channel selects the row and
// the right channel the column. Full positive amplitude is at the top left.
type Visualizer struct {
	size  int
	drawn int
}

// New creates a visualizer for a size x size buffer.
func New(size int) (*Visualizer, error) {
	if size <= MinSize || size%2 != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Visualizer{size: size}, nil
}

// Size returns the side of the pixel buffer.
func (v *Visualizer) Size() int { return v.size }

// NewBuffer allocates a blank pixel buffer.
func (v *Visualizer) NewBuffer() []byte {
	return make([]byte, v.size*v.size)
}

// DrawSample plots one sample pair at full intensity. Points on the two
// center lines are skipped so the idle signal leaves no trace.
func (v *Visualizer) DrawSample(buf []byte, left, right int16) error {
	if len(buf) != v.size*v.size {
		return fmt.Errorf("%w: %d bytes, want %d", ErrBufferSize, len(buf), v.size*v.size)
	}
	if v.drawn == DecayInterval {
		Decay(buf)
		v.drawn = 0
	} else {
		v.drawn++
	}

	x := v.coordinate(left)
	y := v.coordinate(right)
	half := v.size / 2
	if x != half && y != half {
		buf[x*v.size+y] = math.MaxUint8
	}
	return nil
}

// Draw plots interleaved left/right samples. A trailing odd sample is
// ignored.
func (v *Visualizer) Draw(buf []byte, samples []int16) error {
	for i := 0; i+1 < len(samples); i += 2 {
		if err := v.DrawSample(buf, samples[i], samples[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visualizer) coordinate(s int16) int {
	half := v.size / 2
	c := half - int(float64(s)/math.MaxInt16*float64(half))
	// -32768 maps one pixel past the edge.
	return min(max(c, 0), v.size-1)
}

// Decay fades every pixel of buf by DecayFactor.
func Decay(buf []byte) {
	for i, p := range buf {
		buf[i] = byte(float64(p) * DecayFactor)
	}
}
