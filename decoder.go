package timecode

import (
	"fmt"

	"github.com/llehouerou/go-timecode/internal/bitstream"
	"github.com/llehouerou/go-timecode/internal/channel"
	"github.com/llehouerou/go-timecode/internal/pcm"
)

// Decoder recovers position, direction and speed from a stereo timecode
// signal, one sample pair at a time.
//
// Both channels carry the same carrier a quarter cycle apart. Whichever
// channel crosses zero, comparing its new polarity with the other channel
// tells which one is leading, and therefore the direction. Each cycle
// carries one bit in the amplitude of the primary channel. It is read when
// the secondary channel crosses zero while the primary is at its positive
// peak, which happens at the same phase in both directions.
//
// A Decoder is not safe for concurrent use. The per-sample path does not
// allocate.
type Decoder struct {
	format *Format
	config Config

	primary   *channel.Channel
	secondary *channel.Channel
	bits      *bitstream.Bitstream

	direction Direction
	lastBit   uint32
	samples   uint64
}

// NewDecoder creates a decoder for f with the default configuration.
func NewDecoder(f *Format) *Decoder {
	d := &Decoder{
		format: f,
		bits:   bitstream.New(f.table, f.params.ValidPositions),
	}
	if err := d.SetConfiguration(DefaultConfig()); err != nil {
		panic("timecode: default configuration rejected: " + err.Error())
	}
	return d
}

// Format returns the decoded format.
func (d *Decoder) Format() *Format { return d.format }

// Config returns the current decoder configuration.
func (d *Decoder) Config() Config { return d.config }

// SetConfiguration applies cfg and restarts the signal analysis. The
// position state is kept.
func (d *Decoder) SetConfiguration(cfg Config) error {
	cc := d.channelConfig(cfg)
	primary, err := channel.New(cc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	secondary, err := channel.New(cc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	d.config = cfg
	d.primary = primary
	d.secondary = secondary
	d.direction = Stopped
	return nil
}

func (d *Decoder) channelConfig(cfg Config) channel.Config {
	return channel.Config{
		SampleRateHz:         d.format.params.SampleRateHz,
		FrequencyHz:          d.format.params.PrimaryFrequencyHz,
		Hysteresis:           cfg.Hysteresis,
		BaselineTimeConstant: cfg.BaselineTimeConstant,
		PitchSmoothing:       cfg.PitchSmoothing,
		BitSmoothing:         cfg.BitSmoothing,
		MaxSpeed:             cfg.MaxSpeed,
		MinSpeed:             cfg.MinSpeed,
	}
}

// Process decodes one 16-bit sample pair. It returns a Reading if a bit
// was read.
func (d *Decoder) Process(primary, secondary int16) (Reading, bool) {
	return d.ProcessFloat(pcm.ToFloat(primary), pcm.ToFloat(secondary))
}

// ProcessFloat decodes one unit-range sample pair. NaN is read as silence
// and infinities as full scale.
func (d *Decoder) ProcessFloat(primary, secondary float32) (Reading, bool) {
	sample := d.samples
	d.samples++

	pc := d.primary.Process(float64(primary)) == channel.CrossingDetected
	sc := d.secondary.Process(float64(secondary)) == channel.CrossingDetected

	// Quadrature channels never cross together, unless the sample is a glitch.
	if pc == sc {
		return Reading{}, false
	}

	same := d.primary.Polarity() == d.secondary.Polarity()
	forward := same
	if sc {
		forward = !same
	}
	if d.format.params.Lead == LeadPrimary {
		forward = !forward
	}
	if forward {
		d.direction = Forward
	} else {
		d.direction = Backward
	}

	if !sc || d.primary.Polarity() != channel.Above {
		return Reading{}, false
	}

	bit := d.primary.ReadBit()
	d.lastBit = bit
	d.bits.ProcessBit(bit, d.direction == Backward)
	pos, _ := d.bits.Position()
	return Reading{
		Bit:       bit,
		Position:  pos,
		Valid:     d.bits.IsValid(),
		Direction: d.direction,
		Sample:    sample,
	}, true
}

// ProcessInterleaved decodes interleaved primary/secondary 16-bit samples
// and calls fn for every bit read. A trailing odd sample is ignored.
func (d *Decoder) ProcessInterleaved(buf []int16, fn func(Reading)) {
	for i := 0; i+1 < len(buf); i += 2 {
		if r, ok := d.Process(buf[i], buf[i+1]); ok && fn != nil {
			fn(r)
		}
	}
}

// Position returns the position of the last cycle read and whether it is
// valid.
func (d *Decoder) Position() (uint32, bool) {
	p, ok := d.bits.Position()
	return p, ok && d.bits.IsValid()
}

// Direction returns the playback direction. It is Stopped once both
// channels stopped crossing zero.
func (d *Decoder) Direction() Direction {
	if d.primary.Stalled() && d.secondary.Stalled() {
		return Stopped
	}
	return d.direction
}

// Speed returns the unsigned playback speed, 1.0 being nominal.
func (d *Decoder) Speed() float64 {
	return (d.primary.Speed() + d.secondary.Speed()) / 2
}

// Pitch returns the signed playback speed.
func (d *Decoder) Pitch() float64 {
	switch d.Direction() {
	case Forward:
		return d.Speed()
	case Backward:
		return -d.Speed()
	default:
		return 0
	}
}

// Status reports whether the position is being tracked.
func (d *Decoder) Status() Status {
	if d.bits.IsValid() {
		return Tracking
	}
	return Unsynced
}

// State returns the raw LFSR register of the bitstream mapper.
func (d *Decoder) State() uint32 { return d.bits.State() }

// Samples returns the number of sample pairs processed.
func (d *Decoder) Samples() uint64 { return d.samples }

// Snapshot returns the current decoder state.
func (d *Decoder) Snapshot() Snapshot {
	pos, valid := d.Position()
	return Snapshot{
		Direction:   d.Direction(),
		Position:    pos,
		Valid:       valid,
		Status:      d.Status(),
		Speed:       d.Speed(),
		Pitch:       d.Pitch(),
		PulseWidths: [2]float64{d.primary.PulseWidth(), d.secondary.PulseWidth()},
		Bit:         d.lastBit,
		Samples:     d.samples,
	}
}

// Reset restarts the signal analysis and places the decoder at position,
// trusted and reading forward.
func (d *Decoder) Reset(position uint32) error {
	if position >= d.format.params.ValidPositions {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	if err := d.bits.Reset(position); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPosition, err)
	}
	d.primary.Reset()
	d.secondary.Reset()
	d.direction = Stopped
	d.lastBit = 0
	return nil
}
