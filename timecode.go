package timecode

import "fmt"

// Direction is the playback direction.
type Direction uint8

// Directions. Stopped also covers an unknown direction before the first
// zero crossing.
const (
	Stopped Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Stopped:
		return "stopped"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Status reports whether the decoded position can be trusted.
type Status uint8

const (
	Unsynced Status = iota // not enough consistent bits since the last error
	Tracking               // position follows the signal
)

func (s Status) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "unsynced"
}

// Config contains decoder tuning options. Amplitudes are in unit range,
// where 1.0 is 16-bit full scale.
type Config struct {
	// Hysteresis is the half-width of the band around the baseline that
	// the signal has to leave to confirm a zero crossing.
	Hysteresis float64

	// BaselineTimeConstant is the RC time constant, in seconds, of the
	// filter that tracks the DC offset of each channel.
	BaselineTimeConstant float64

	// PitchSmoothing is the EWMA factor applied to per-pulse speeds.
	PitchSmoothing float64

	// BitSmoothing is the EWMA factor of the reference level separating
	// 0 and 1 bits.
	BitSmoothing float64

	// MaxSpeed rejects pulses implying a faster speed as glitches.
	MaxSpeed float64

	// MinSpeed is the slowest speed before a channel counts as stopped.
	MinSpeed float64
}

// DefaultConfig returns the default decoder configuration.
func DefaultConfig() Config {
	return Config{
		Hysteresis:           0.01,
		BaselineTimeConstant: 0.02,
		PitchSmoothing:       0.25,
		BitSmoothing:         1.0 / 32,
		MaxSpeed:             8,
		MinSpeed:             0.05,
	}
}

// Reading is produced for every bit read from the signal.
type Reading struct {
	Bit       uint32    // observed bit
	Position  uint32    // position of the cycle just read
	Valid     bool      // whether Position can be trusted
	Direction Direction // direction the bit was read in
	Sample    uint64    // index of the sample pair that completed the read
}

// Snapshot is the decoder state exposed to displays.
type Snapshot struct {
	Direction   Direction
	Position    uint32
	Valid       bool
	Status      Status
	Speed       float64    // unsigned, 1.0 is nominal
	Pitch       float64    // signed speed, negative when playing backward
	PulseWidths [2]float64 // last pulse width of each channel, in samples
	Bit         uint32     // last bit read
	Samples     uint64     // sample pairs processed
}
