package channel

import (
	"errors"
	"math"
	"testing"
)

const sampleRate = 44100.0

func newChannel(t *testing.T, frequency float64) *Channel {
	t.Helper()
	c, err := New(DefaultConfig(sampleRate, frequency))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// feedSine processes n samples of a sine and returns the number of
// confirmed crossings.
func feedSine(c *Channel, amplitude, frequency float64, n int) int {
	crossings := 0
	for i := 0; i < n; i++ {
		x := amplitude * math.Sin(2*math.Pi*frequency*float64(i)/sampleRate)
		if c.Process(x) == CrossingDetected {
			crossings++
		}
	}
	return crossings
}

func TestConfig_Validate(t *testing.T) {
	base := DefaultConfig(sampleRate, 1000)
	if err := base.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.SampleRateHz = 0 }},
		{"nyquist", func(c *Config) { c.FrequencyHz = sampleRate / 2 }},
		{"negative frequency", func(c *Config) { c.FrequencyHz = -1 }},
		{"negative hysteresis", func(c *Config) { c.Hysteresis = -0.1 }},
		{"NaN hysteresis", func(c *Config) { c.Hysteresis = math.NaN() }},
		{"zero pitch smoothing", func(c *Config) { c.PitchSmoothing = 0 }},
		{"bit smoothing above one", func(c *Config) { c.BitSmoothing = 1.5 }},
		{"inverted speed range", func(c *Config) { c.MinSpeed, c.MaxSpeed = 2, 1 }},
		{"zero min speed", func(c *Config) { c.MinSpeed = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.modify(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestProcess_ConstantInputIsStopped(t *testing.T) {
	c := newChannel(t, 1000)
	for i := 0; i < 10000; i++ {
		if s := c.Process(0.3); s != AboveThreshold {
			t.Fatalf("sample %d: status %v", i, s)
		}
	}
	if !c.Stalled() {
		t.Error("channel should be stalled")
	}
	if c.Speed() != 0 {
		t.Errorf("Speed = %v, want 0", c.Speed())
	}
	if math.Abs(c.Baseline()-0.3) > 1e-9 {
		t.Errorf("Baseline = %v, want 0.3", c.Baseline())
	}
	if c.Elapsed() != -1 {
		t.Errorf("Elapsed = %v, want -1", c.Elapsed())
	}
}

func TestProcess_NominalSine(t *testing.T) {
	c := newChannel(t, 1000)
	crossings := feedSine(c, 0.5, 1000, 8820)
	// 200 cycles, two crossings each, minus the start at phase zero.
	if crossings < 398 || crossings > 400 {
		t.Errorf("crossings = %d, want ~399", crossings)
	}
	if math.Abs(c.Speed()-1) > 0.001 {
		t.Errorf("Speed = %v, want 1", c.Speed())
	}
	if math.Abs(c.PulseWidth()-22.05) > 0.01 {
		t.Errorf("PulseWidth = %v, want 22.05", c.PulseWidth())
	}
	if c.NominalHalfCycle() != 22.05 {
		t.Errorf("NominalHalfCycle = %v", c.NominalHalfCycle())
	}
}

func TestProcess_NonFiniteSamples(t *testing.T) {
	c := newChannel(t, 1000)
	feedSine(c, 0.5, 1000, 4410)
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		c.Process(x)
	}
	if math.IsNaN(c.Baseline()) || math.IsInf(c.Baseline(), 0) {
		t.Fatalf("Baseline = %v", c.Baseline())
	}
	if n := feedSine(c, 0.5, 1000, 4410); n < 190 {
		t.Errorf("crossings after non-finite input = %d, want ~199", n)
	}
	if math.Abs(c.Speed()-1) > 0.01 {
		t.Errorf("Speed = %v, want 1", c.Speed())
	}
}

func TestProcess_HalfSpeed(t *testing.T) {
	c := newChannel(t, 1000)
	feedSine(c, 0.5, 500, 8820)
	if math.Abs(c.Speed()-0.5) > 0.001 {
		t.Errorf("Speed = %v, want 0.5", c.Speed())
	}
}

func TestSpeed_DecaysWhenSignalStops(t *testing.T) {
	c := newChannel(t, 1000)
	feedSine(c, 0.5, 1000, 4410)
	for i := 0; i < 44; i++ {
		c.Process(0)
	}
	if s := c.Speed(); s <= 0 || s >= 0.75 {
		t.Errorf("Speed after two silent half cycles = %v, want in (0, 0.75)", s)
	}
	if c.Stalled() {
		t.Error("channel stalled too early")
	}
	for i := 0; i < 500; i++ {
		c.Process(0)
	}
	if !c.Stalled() || c.Speed() != 0 {
		t.Errorf("after silence: stalled=%v speed=%v", c.Stalled(), c.Speed())
	}
}

func TestProcess_Hysteresis(t *testing.T) {
	// A ±0.005 ripple stays inside the default band.
	c := newChannel(t, 1000)
	for i := 0; i < 2000; i++ {
		x := -0.005
		if i%2 == 1 {
			x = 0.005
		}
		if c.Process(x) == CrossingDetected {
			t.Fatalf("sample %d: ripple confirmed a crossing", i)
		}
	}

	cfg := DefaultConfig(sampleRate, 1000)
	cfg.Hysteresis = 0.001
	c, _ = New(cfg)
	crossings := 0
	for i := 0; i < 2000; i++ {
		x := -0.005
		if i%2 == 1 {
			x = 0.005
		}
		if c.Process(x) == CrossingDetected {
			crossings++
		}
	}
	if crossings < 1000 {
		t.Errorf("narrow band: crossings = %d, want most samples", crossings)
	}
	// One-sample pulses are far above MaxSpeed and never reach the pitch.
	if c.PulseWidth() != 0 {
		t.Errorf("PulseWidth = %v, want 0", c.PulseWidth())
	}
}

func TestProcess_PolarityAndPeak(t *testing.T) {
	c := newChannel(t, 1102.5) // 40 samples per cycle
	var statuses []Status
	for i := 0; i < 40; i++ {
		statuses = append(statuses, c.Process(0.8*math.Sin(2*math.Pi*float64(i)/40)))
		if i == 15 && math.Abs(c.Peak()-0.8) > 0.01 {
			t.Errorf("Peak during positive half = %v, want 0.8", c.Peak())
		}
	}
	if c.Polarity() != Below {
		t.Errorf("Polarity = %v, want below", c.Polarity())
	}
	n := 0
	for _, s := range statuses {
		if s == CrossingDetected {
			n++
		}
	}
	if n != 1 {
		t.Errorf("crossings in one cycle = %d, want 1", n)
	}
	if statuses[30] != BelowThreshold {
		t.Errorf("status in negative half = %v", statuses[30])
	}
}

func TestReadBit_AmplitudeCoding(t *testing.T) {
	c := newChannel(t, 1102.5)
	pattern := func(k int) uint32 {
		if (k*k+k/3)%5 < 2 {
			return 1
		}
		return 0
	}
	for k := 0; k < 200; k++ {
		a := 0.375
		if pattern(k) == 1 {
			a = 0.5
		}
		for i := 0; i < 40; i++ {
			c.Process(a * math.Sin(2*math.Pi*float64(i)/40))
			if i != 11 {
				continue
			}
			bit := c.ReadBit()
			if k == 0 && bit != 0 {
				t.Error("first read should seed the reference and return 0")
			}
			if k >= 40 && bit != pattern(k) {
				t.Fatalf("cycle %d: bit %d, want %d (peak %v ref %v)", k, bit, pattern(k), c.Peak(), c.Reference())
			}
		}
	}
}

func TestReset(t *testing.T) {
	c := newChannel(t, 1000)
	feedSine(c, 0.5, 1000, 4410)
	c.Reset()
	if c.Speed() != 0 || !c.Stalled() || c.Polarity() != Above || c.PulseWidth() != 0 {
		t.Errorf("after Reset: speed=%v stalled=%v polarity=%v width=%v",
			c.Speed(), c.Stalled(), c.Polarity(), c.PulseWidth())
	}
}
