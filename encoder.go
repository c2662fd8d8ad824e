package timecode

import (
	"fmt"
	"math"

	"github.com/llehouerou/go-timecode/internal/lfsr"
	"github.com/llehouerou/go-timecode/internal/pcm"
)

// DefaultLevel is the default peak amplitude of a 1 bit, in unit range.
const DefaultLevel = 0.5

// Encoder synthesizes a timecode signal from a position, a direction and a
// speed.
//
// The signal phase θ is counted in cycles from the start position. Cycle k
// spans θ in [k, k+1). The primary channel is a sine and the secondary a
// cosine of θ, so the secondary crosses zero at θ = k + 1/4, where the
// decoder reads the primary's peak. The primary carries the bit of cycle k
// over the whole cycle and the secondary changes its bit at θ = k + 3/4.
// Both changes fall on zero crossings of their channel, so the waveform is
// continuous and plays back the same way in reverse.
//
// An Encoder is not safe for concurrent use. The per-sample path does not
// allocate.
type Encoder struct {
	format *Format
	reg    lfsr.Register

	start uint32  // position at θ = 0
	theta float64 // phase in cycles
	cycle int64   // cycle whose state is in reg, floor(θ + 1/4)
	fade  float64 // cycles played since the last seek

	step      float64 // cycles per sample at speed 1
	speed     float64
	direction Direction
	level     float64
	sign      float64 // secondary polarity, -1 when the primary leads
}

// NewEncoder creates an encoder starting at position, playing forward at
// nominal speed.
func NewEncoder(f *Format, position uint32) (*Encoder, error) {
	e := &Encoder{
		format:    f,
		step:      f.params.PrimaryFrequencyHz / f.params.SampleRateHz,
		speed:     1,
		direction: Forward,
		level:     DefaultLevel,
		sign:      1,
	}
	if f.params.Lead == LeadPrimary {
		e.sign = -1
	}
	if err := e.Seek(position); err != nil {
		return nil, err
	}
	return e, nil
}

// Format returns the encoded format.
func (e *Encoder) Format() *Format { return e.format }

// Seek jumps to position. The signal fades in again over one cycle.
func (e *Encoder) Seek(position uint32) error {
	if position >= e.format.params.ValidPositions {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	state, err := e.format.table.State(position)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}
	e.reg = lfsr.New(e.format.params.Size, e.format.params.Taps, state)
	e.start = position
	e.theta = 0
	e.cycle = 0
	e.fade = 0
	return nil
}

// SetSpeed sets the playback speed, 1.0 being nominal. Zero holds the
// signal in place.
func (e *Encoder) SetSpeed(speed float64) error {
	if !(speed >= 0) || math.IsInf(speed, 1) {
		return fmt.Errorf("%w: speed %v", ErrInvalidParameter, speed)
	}
	// Faster than one cycle per four samples the quarter-cycle phase
	// offset between the channels cannot be sampled.
	if speed*e.step > 0.25 {
		return fmt.Errorf("%w: speed %v exceeds a quarter cycle per sample", ErrInvalidParameter, speed)
	}
	e.speed = speed
	return nil
}

// Speed returns the playback speed.
func (e *Encoder) Speed() float64 { return e.speed }

// SetDirection sets the playback direction, Forward or Backward.
func (e *Encoder) SetDirection(d Direction) error {
	if d != Forward && d != Backward {
		return fmt.Errorf("%w: direction %v", ErrInvalidParameter, d)
	}
	e.direction = d
	return nil
}

// Direction returns the playback direction.
func (e *Encoder) Direction() Direction { return e.direction }

// SetLevel sets the peak amplitude of a 1 bit, in (0, 1].
func (e *Encoder) SetLevel(level float64) error {
	if !(level > 0 && level <= 1) {
		return fmt.Errorf("%w: level %v", ErrInvalidParameter, level)
	}
	e.level = level
	return nil
}

// Level returns the peak amplitude of a 1 bit.
func (e *Encoder) Level() float64 { return e.level }

// Position returns the position of the cycle under the needle.
func (e *Encoder) Position() uint32 {
	n := int64(e.format.table.Len())
	p := (int64(e.start) + int64(math.Floor(e.theta))) % n
	if p < 0 {
		p += n
	}
	return uint32(p)
}

// State returns the LFSR state of the cycle under the needle.
func (e *Encoder) State() uint32 {
	s, _ := e.format.table.State(e.Position())
	return s
}

// Phase returns the fractional phase within the current cycle, in [0, 1).
func (e *Encoder) Phase() float64 {
	return e.theta - math.Floor(e.theta)
}

// NextFloat returns the next unit-range sample pair and advances the phase.
func (e *Encoder) NextFloat() (primary, secondary float32) {
	m := int64(math.Floor(e.theta + 0.25))
	for e.cycle < m {
		e.reg.Advance()
		e.cycle++
	}
	for e.cycle > m {
		e.reg.Revert()
		e.cycle--
	}

	size := e.format.params.Size
	state := e.reg.State()
	secondaryBit := (state >> (size - 1)) & 1
	primaryBit := secondaryBit
	if int64(math.Floor(e.theta)) != m {
		// Last quarter of the cycle: the register already holds the next
		// state, whose second bit is the current cycle's bit.
		primaryBit = (state >> (size - 2)) & 1
	}

	gain := e.level * math.Min(1, e.fade)
	s, c := math.Sincos(2 * math.Pi * e.theta)
	primary = float32(gain * e.amplitude(primaryBit) * s)
	secondary = float32(e.sign * gain * e.amplitude(secondaryBit) * c)

	delta := e.speed * e.step
	if e.direction == Backward {
		delta = -delta
	}
	e.theta += delta
	e.fade += math.Abs(delta)
	return primary, secondary
}

func (e *Encoder) amplitude(bit uint32) float64 {
	if bit == 1 {
		return 1
	}
	return e.format.params.ZeroAmplitude
}

// Next returns the next 16-bit sample pair.
func (e *Encoder) Next() (primary, secondary int16) {
	p, s := e.NextFloat()
	return pcm.FromFloat(p), pcm.FromFloat(s)
}

// Fill writes interleaved primary/secondary 16-bit samples to buf. A
// trailing odd sample is left untouched.
func (e *Encoder) Fill(buf []int16) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = e.Next()
	}
}
