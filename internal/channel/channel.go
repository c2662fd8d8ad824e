// Package channel analyses one channel of a timecode signal.
//
// A Channel follows the signal around a slowly adapting baseline. Each time
// the signal changes sides and leaves the hysteresis band on the other side
// a zero crossing is confirmed. The crossing time is interpolated between
// the two samples that straddle the baseline, which gives pulse widths with
// sub-sample precision. Pulse widths are turned into a playback speed, and
// the pulse peak is classified into a bit.
package channel

import (
	"errors"
	"fmt"
	"math"

	"github.com/llehouerou/go-timecode/internal/ewma"
)

// ErrInvalidConfig indicates a configuration value out of range.
var ErrInvalidConfig = errors.New("channel: invalid configuration")

// Polarity is the side of the baseline the signal was last confirmed on.
type Polarity uint8

const (
	Above Polarity = iota
	Below
)

func (p Polarity) String() string {
	if p == Below {
		return "below"
	}
	return "above"
}

// Status is the per-sample result of Process.
type Status uint8

const (
	AboveThreshold Status = iota
	BelowThreshold
	CrossingDetected
)

func (s Status) String() string {
	switch s {
	case AboveThreshold:
		return "above threshold"
	case BelowThreshold:
		return "below threshold"
	case CrossingDetected:
		return "crossing detected"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Config holds the tuning of a Channel.
type Config struct {
	SampleRateHz float64 // input sample rate
	FrequencyHz  float64 // nominal carrier frequency at speed 1

	// Hysteresis is the half-width of the band around the baseline the
	// signal has to leave to confirm a crossing, in unit amplitude.
	Hysteresis float64

	// BaselineTimeConstant is the RC time constant of the baseline, in seconds.
	BaselineTimeConstant float64

	// PitchSmoothing is the EWMA factor applied to per-pulse speeds.
	PitchSmoothing float64

	// BitSmoothing is the EWMA factor of the peak reference level.
	BitSmoothing float64

	// MaxSpeed rejects pulses shorter than the nominal half cycle / MaxSpeed.
	MaxSpeed float64

	// MinSpeed marks the channel stalled once no crossing arrived for the
	// nominal half cycle / MinSpeed.
	MinSpeed float64
}

// DefaultConfig returns the tuning used for a carrier of frequencyHz
// sampled at sampleRateHz.
func DefaultConfig(sampleRateHz, frequencyHz float64) Config {
	return Config{
		SampleRateHz:         sampleRateHz,
		FrequencyHz:          frequencyHz,
		Hysteresis:           0.01,
		BaselineTimeConstant: 0.02,
		PitchSmoothing:       0.25,
		BitSmoothing:         1.0 / 32,
		MaxSpeed:             8,
		MinSpeed:             0.05,
	}
}

// Validate checks cfg.
func (cfg Config) Validate() error {
	switch {
	case !(cfg.SampleRateHz > 0):
		return fmt.Errorf("%w: sample rate %v", ErrInvalidConfig, cfg.SampleRateHz)
	case !(cfg.FrequencyHz > 0) || cfg.FrequencyHz >= cfg.SampleRateHz/2:
		return fmt.Errorf("%w: frequency %v", ErrInvalidConfig, cfg.FrequencyHz)
	case !(cfg.Hysteresis >= 0) || cfg.Hysteresis >= 1:
		return fmt.Errorf("%w: hysteresis %v", ErrInvalidConfig, cfg.Hysteresis)
	case !(cfg.BaselineTimeConstant >= 0) || math.IsInf(cfg.BaselineTimeConstant, 1):
		return fmt.Errorf("%w: baseline time constant %v", ErrInvalidConfig, cfg.BaselineTimeConstant)
	case !(cfg.PitchSmoothing > 0) || cfg.PitchSmoothing > 1:
		return fmt.Errorf("%w: pitch smoothing %v", ErrInvalidConfig, cfg.PitchSmoothing)
	case !(cfg.BitSmoothing > 0) || cfg.BitSmoothing > 1:
		return fmt.Errorf("%w: bit smoothing %v", ErrInvalidConfig, cfg.BitSmoothing)
	case !(cfg.MinSpeed > 0) || !(cfg.MaxSpeed > cfg.MinSpeed) || math.IsInf(cfg.MaxSpeed, 1):
		return fmt.Errorf("%w: speed range [%v, %v]", ErrInvalidConfig, cfg.MinSpeed, cfg.MaxSpeed)
	}
	return nil
}

// Channel is the zero-crossing and pulse state of one channel. It is not
// safe for concurrent use.
type Channel struct {
	cfg Config

	nominalHalf float64 // samples per half cycle at speed 1
	stallLimit  float64 // samples without a crossing before stalling

	baseline ewma.Filter
	speed    ewma.Filter
	ref      ewma.Filter

	polarity Polarity
	now      int64   // index of the sample being processed
	prev     float64 // previous sample relative to the baseline
	hasPrev  bool

	candidate    float64
	hasCandidate bool
	last         float64 // time of the last confirmed crossing
	hasLast      bool

	width float64 // last accepted pulse width in samples
	peak  float64 // max |x - baseline| since the last crossing
}

// New creates a Channel.
func New(cfg Config) (*Channel, error) {
	c := &Channel{}
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure applies cfg and resets the analysis state.
func (c *Channel) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	baseline, err := ewma.FromTimeConstant(cfg.BaselineTimeConstant, cfg.SampleRateHz)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	speed, err := ewma.New(cfg.PitchSmoothing)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	ref, err := ewma.New(cfg.BitSmoothing)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c.cfg = cfg
	c.nominalHalf = cfg.SampleRateHz / (2 * cfg.FrequencyHz)
	c.stallLimit = c.nominalHalf / cfg.MinSpeed
	c.baseline = baseline
	c.speed = speed
	c.ref = ref
	c.Reset()
	return nil
}

// Config returns the active configuration.
func (c *Channel) Config() Config { return c.cfg }

// Reset forgets all observed samples.
func (c *Channel) Reset() {
	c.baseline.Reset()
	c.speed.Reset()
	c.ref.Reset()
	c.polarity = Above
	c.now = -1
	c.prev = 0
	c.hasPrev = false
	c.candidate = 0
	c.hasCandidate = false
	c.last = 0
	c.hasLast = false
	c.width = 0
	c.peak = 0
}

// Process analyses one unit-normalized sample. NaN counts as silence and
// infinities as full scale.
func (c *Channel) Process(x float64) Status {
	c.now++
	switch {
	case math.IsNaN(x):
		x = 0
	case math.IsInf(x, 1):
		x = 1
	case math.IsInf(x, -1):
		x = -1
	}
	d := x - c.baseline.Update(x)

	// Remember where the signal crossed the baseline towards the opposite
	// polarity. It only counts once the hysteresis band is left.
	if c.hasPrev && c.leaving(c.prev, d) {
		c.candidate = float64(c.now-1) + interpolate(c.prev, d)
		c.hasCandidate = true
	}
	c.prev = d
	c.hasPrev = true

	crossed := false
	if (c.polarity == Above && d < -c.cfg.Hysteresis) || (c.polarity == Below && d > c.cfg.Hysteresis) {
		t := float64(c.now)
		if c.hasCandidate {
			t = c.candidate
		}
		c.confirm(t)
		crossed = true
	}

	if a := math.Abs(d); a > c.peak {
		c.peak = a
	}

	switch {
	case crossed:
		return CrossingDetected
	case c.polarity == Below:
		return BelowThreshold
	default:
		return AboveThreshold
	}
}

func (c *Channel) leaving(prev, d float64) bool {
	if c.polarity == Above {
		return prev >= 0 && d < 0
	}
	return prev < 0 && d >= 0
}

// interpolate returns the fraction of a sample after which the line from a
// to b crosses zero.
func interpolate(a, b float64) float64 {
	den := math.Abs(a) + math.Abs(b)
	if den == 0 {
		return 1
	}
	return math.Abs(a) / den
}

func (c *Channel) confirm(t float64) {
	if c.hasLast {
		w := t - c.last
		if w > 0 {
			if s := c.nominalHalf / w; s <= c.cfg.MaxSpeed {
				c.width = w
				if w > c.stallLimit {
					c.speed.Reset()
				}
				c.speed.Update(s)
			}
		}
	}
	c.last = t
	c.hasLast = true
	c.hasCandidate = false
	c.peak = 0
	if c.polarity == Above {
		c.polarity = Below
	} else {
		c.polarity = Above
	}
}

// Polarity returns the side of the last confirmed crossing.
func (c *Channel) Polarity() Polarity { return c.polarity }

// Peak returns the largest distance from the baseline since the last
// crossing, including the current sample.
func (c *Channel) Peak() float64 { return c.peak }

// Baseline returns the current baseline estimate.
func (c *Channel) Baseline() float64 { return c.baseline.Value() }

// PulseWidth returns the last accepted pulse width in samples.
func (c *Channel) PulseWidth() float64 { return c.width }

// NominalHalfCycle returns the pulse width at speed 1, in samples.
func (c *Channel) NominalHalfCycle() float64 { return c.nominalHalf }

// Elapsed returns the number of samples since the last confirmed crossing,
// or -1 if none was seen.
func (c *Channel) Elapsed() float64 {
	if !c.hasLast {
		return -1
	}
	return float64(c.now) - c.last
}

// Stalled reports whether no crossing arrived within the stall limit.
func (c *Channel) Stalled() bool {
	return !c.hasLast || float64(c.now)-c.last > c.stallLimit
}

// Speed returns the smoothed playback speed, 1 being nominal. While no
// crossing arrives the estimate is bounded by the pulse still open, so it
// falls to zero when the signal stops.
func (c *Channel) Speed() float64 {
	if c.Stalled() || !c.speed.Initialized() {
		return 0
	}
	s := c.speed.Value()
	if elapsed := float64(c.now) - c.last; elapsed > 0 {
		s = math.Min(s, 1.5*c.nominalHalf/elapsed)
	}
	return s
}

// ReadBit classifies the current peak against the running reference level
// and then folds the peak into it. The first read only seeds the reference
// and returns 0.
func (c *Channel) ReadBit() uint32 {
	p := c.peak
	if !c.ref.Initialized() {
		c.ref.Update(p)
		return 0
	}
	var bit uint32
	if p > c.ref.Value() {
		bit = 1
	}
	c.ref.Update(p)
	return bit
}

// Reference returns the peak level separating 0 and 1 bits.
func (c *Channel) Reference() float64 { return c.ref.Value() }
