package timecode

import (
	"fmt"
	"math"
	"sync"

	"github.com/llehouerou/go-timecode/internal/bitstream"
)

// Lead names the channel that is ahead by a quarter cycle during forward
// playback.
type Lead uint8

const (
	LeadSecondary Lead = iota // secondary (right) leads, as on the Serato Control CD
	LeadPrimary               // primary (left) leads
)

func (l Lead) String() string {
	if l == LeadPrimary {
		return "primary"
	}
	return "secondary"
}

// FormatParams describes a timecode signal.
type FormatParams struct {
	Name string

	PrimaryFrequencyHz   float64 // carrier of the primary (left) channel
	SecondaryFrequencyHz float64 // carrier of the secondary (right) channel
	SampleRateHz         float64

	Size           uint   // LFSR width in bits
	Taps           uint32 // feedback taps, bit 0 must be set
	Seed           uint32 // state at position 0
	ValidPositions uint32 // number of usable positions from the seed

	// ZeroAmplitude is the amplitude of a 0 bit relative to a 1 bit.
	ZeroAmplitude float64

	Lead Lead
}

// Format is a validated timecode description together with its position
// lookup table. It is immutable and safe to share between sessions.
type Format struct {
	params FormatParams
	table  *bitstream.Table
}

// NewFormat validates p and builds the position lookup table.
//
// Building the table walks the whole LFSR cycle, so formats should be
// created once and shared.
func NewFormat(p FormatParams) (*Format, error) {
	if p.Size < 2 || p.Size > bitstream.MaxWidth {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidFormat, p.Size)
	}
	period := uint32(1)<<p.Size - 1
	if p.ValidPositions == 0 || p.ValidPositions > period {
		return nil, fmt.Errorf("%w: %d valid positions with a period of %d", ErrInvalidFormat, p.ValidPositions, period)
	}
	if !(p.ZeroAmplitude > 0 && p.ZeroAmplitude < 1) {
		return nil, fmt.Errorf("%w: zero amplitude %v", ErrInvalidFormat, p.ZeroAmplitude)
	}
	if p.Lead > LeadPrimary {
		return nil, fmt.Errorf("%w: lead %d", ErrInvalidFormat, p.Lead)
	}
	if err := validateRates(p.PrimaryFrequencyHz, p.SecondaryFrequencyHz, p.SampleRateHz); err != nil {
		return nil, err
	}

	table, err := bitstream.NewTable(p.Size, p.Taps, p.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return &Format{params: p, table: table}, nil
}

func validateRates(primary, secondary, sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 1) {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidFormat, sampleRate)
	}
	if !(primary > 0) || primary >= sampleRate/2 {
		return fmt.Errorf("%w: frequency %v at sample rate %v", ErrInvalidFormat, primary, sampleRate)
	}
	// Direction is derived from the quarter-cycle offset between the
	// channels, which only holds for a common carrier.
	if secondary != primary {
		return fmt.Errorf("%w: channel frequencies differ (%v, %v)", ErrInvalidFormat, primary, secondary)
	}
	return nil
}

// WithSampleRate returns a copy of f for another sample rate. The lookup
// table is shared.
func (f *Format) WithSampleRate(sampleRateHz float64) (*Format, error) {
	if err := validateRates(f.params.PrimaryFrequencyHz, f.params.SecondaryFrequencyHz, sampleRateHz); err != nil {
		return nil, err
	}
	p := f.params
	p.SampleRateHz = sampleRateHz
	return &Format{params: p, table: f.table}, nil
}

// Params returns the parameters f was built from.
func (f *Format) Params() FormatParams { return f.params }

// Name returns the format name.
func (f *Format) Name() string { return f.params.Name }

// FrequencyHz returns the carrier frequency at speed 1.
func (f *Format) FrequencyHz() float64 { return f.params.PrimaryFrequencyHz }

// SampleRateHz returns the sample rate.
func (f *Format) SampleRateHz() float64 { return f.params.SampleRateHz }

// Size returns the LFSR width in bits.
func (f *Format) Size() uint { return f.params.Size }

// ValidPositions returns the number of usable positions.
func (f *Format) ValidPositions() uint32 { return f.params.ValidPositions }

// ZeroAmplitude returns the relative amplitude of a 0 bit.
func (f *Format) ZeroAmplitude() float64 { return f.params.ZeroAmplitude }

// Lead returns the channel leading during forward playback.
func (f *Format) Lead() Lead { return f.params.Lead }

// Period returns the number of distinct positions of the LFSR.
func (f *Format) Period() uint32 { return f.table.Len() }

// State returns the LFSR state at position.
func (f *Format) State(position uint32) (uint32, error) {
	s, err := f.table.State(position)
	if err != nil {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	return s, nil
}

// Position returns the position of an LFSR state.
func (f *Format) Position(state uint32) (uint32, bool) {
	return f.table.Position(state)
}

// Seconds converts a position to a time offset at speed 1.
func (f *Format) Seconds(position uint32) float64 {
	return float64(position) / f.params.PrimaryFrequencyHz
}

// Serato Control CD parameters.
const (
	seratoSize           = 20
	seratoTaps           = 0b0011_0100_1101_0101_0101
	seratoSeed           = 0b0000_1100_0011_0000_0111
	seratoValidPositions = 950000
	seratoFrequencyHz    = 1000
	seratoSampleRateHz   = 44100
)

var (
	seratoOnce   sync.Once
	seratoFormat *Format
)

// SeratoControlCD returns the Serato Control CD format at 44.1 kHz. The
// format is built on first use and shared afterwards.
func SeratoControlCD() *Format {
	seratoOnce.Do(func() {
		f, err := NewFormat(FormatParams{
			Name:                 "serato_cd",
			PrimaryFrequencyHz:   seratoFrequencyHz,
			SecondaryFrequencyHz: seratoFrequencyHz,
			SampleRateHz:         seratoSampleRateHz,
			Size:                 seratoSize,
			Taps:                 seratoTaps,
			Seed:                 seratoSeed,
			ValidPositions:       seratoValidPositions,
			ZeroAmplitude:        0.75,
			Lead:                 LeadSecondary,
		})
		if err != nil {
			panic("timecode: serato format: " + err.Error())
		}
		seratoFormat = f
	})
	return seratoFormat
}

// LookupFormat returns a built-in format by name.
func LookupFormat(name string) (*Format, error) {
	switch name {
	case "serato_cd", "serato":
		return SeratoControlCD(), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidFormat, name)
	}
}

// FormatNames lists the names accepted by LookupFormat.
func FormatNames() []string {
	return []string{"serato_cd"}
}
