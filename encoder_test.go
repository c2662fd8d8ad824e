package timecode

import (
	"errors"
	"math"
	"testing"
)

func newTestEncoder(t *testing.T, position uint32) *Encoder {
	t.Helper()
	enc, err := NewEncoder(SeratoControlCD(), position)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	return enc
}

func TestNewEncoder_InvalidPosition(t *testing.T) {
	f := SeratoControlCD()
	if _, err := NewEncoder(f, f.ValidPositions()); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("err = %v, want ErrInvalidPosition", err)
	}
}

func TestEncoder_Defaults(t *testing.T) {
	enc := newTestEncoder(t, 10)
	if enc.Speed() != 1 || enc.Direction() != Forward || enc.Level() != DefaultLevel {
		t.Errorf("defaults: speed=%v direction=%v level=%v", enc.Speed(), enc.Direction(), enc.Level())
	}
	if enc.Position() != 10 || enc.Phase() != 0 {
		t.Errorf("Position = %d, Phase = %v", enc.Position(), enc.Phase())
	}
	if enc.Format() != SeratoControlCD() {
		t.Error("Format mismatch")
	}
}

func TestEncoder_Setters(t *testing.T) {
	enc := newTestEncoder(t, 0)
	for _, s := range []float64{-1, math.NaN(), math.Inf(1), 12} {
		if err := enc.SetSpeed(s); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("SetSpeed(%v): err = %v", s, err)
		}
	}
	for _, s := range []float64{0, 0.01, 1, 10} {
		if err := enc.SetSpeed(s); err != nil {
			t.Errorf("SetSpeed(%v): %v", s, err)
		}
	}
	if err := enc.SetDirection(Stopped); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("SetDirection(Stopped): err = %v", err)
	}
	if err := enc.SetDirection(Backward); err != nil || enc.Direction() != Backward {
		t.Errorf("SetDirection(Backward): %v", err)
	}
	for _, l := range []float64{0, -0.5, 1.01, math.NaN()} {
		if err := enc.SetLevel(l); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("SetLevel(%v): err = %v", l, err)
		}
	}
	if err := enc.SetLevel(1); err != nil || enc.Level() != 1 {
		t.Errorf("SetLevel(1): %v", err)
	}
}

func TestEncoder_Position(t *testing.T) {
	f := SeratoControlCD()
	enc := newTestEncoder(t, 1000)
	for i := 0; i < 450; i++ { // 10.2 cycles
		enc.Next()
	}
	if enc.Position() != 1010 {
		t.Errorf("forward: Position = %d, want 1010", enc.Position())
	}
	if s, _ := f.State(1010); enc.State() != s {
		t.Errorf("State = %#x, want %#x", enc.State(), s)
	}

	_ = enc.SetDirection(Backward)
	for i := 0; i < 900; i++ { // back 20.4 cycles
		enc.Next()
	}
	if enc.Position() != 989 {
		t.Errorf("backward: Position = %d, want 989", enc.Position())
	}

	if err := enc.Seek(42); err != nil {
		t.Fatal(err)
	}
	if enc.Position() != 42 || enc.Phase() != 0 {
		t.Errorf("after Seek: Position = %d, Phase = %v", enc.Position(), enc.Phase())
	}
	if err := enc.Seek(f.ValidPositions()); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("Seek out of range: err = %v", err)
	}
}

func TestEncoder_WrapsBelowZero(t *testing.T) {
	f := SeratoControlCD()
	enc := newTestEncoder(t, 0)
	_ = enc.SetDirection(Backward)
	enc.Next()
	enc.Next()
	if enc.Position() != f.Period()-1 {
		t.Errorf("Position = %d, want %d", enc.Position(), f.Period()-1)
	}
}

func TestEncoder_FadeIn(t *testing.T) {
	enc := newTestEncoder(t, 5000)
	p, s := enc.Next()
	if p != 0 || s != 0 {
		t.Errorf("first sample = (%d, %d), want silence", p, s)
	}
	var early, late int16
	for i := 1; i < 44*10; i++ {
		p, _ := enc.Next()
		if p < 0 {
			p = -p
		}
		if i < 20 && p > early {
			early = p
		}
		if i > 44 && p > late {
			late = p
		}
	}
	if early >= late/2 {
		t.Errorf("first half cycle peak %d, later peak %d", early, late)
	}
}

// The primary peak of every cycle encodes the cycle's bit.
func TestEncoder_AmplitudeCoding(t *testing.T) {
	f := SeratoControlCD()
	const start = 70000
	enc := newTestEncoder(t, start)
	full := DefaultLevel * 32768

	peaks := map[uint32]float64{}
	for i := 0; i < 44100; i++ {
		pos := enc.Position()
		p, _ := enc.Next()
		if a := math.Abs(float64(p)); a > peaks[pos] {
			peaks[pos] = a
		}
	}
	for pos := uint32(start + 2); pos < start+990; pos++ {
		s, _ := f.State(pos)
		want := full
		if s>>(f.Size()-1)&1 == 0 {
			want *= f.ZeroAmplitude()
		}
		if math.Abs(peaks[pos]-want) > 0.01*want {
			t.Fatalf("cycle %d: peak %v, want %v", pos, peaks[pos], want)
		}
	}
}

// Amplitude changes fall on zero crossings, so consecutive samples never
// differ by more than the steepest slope of the carrier.
func TestEncoder_Continuity(t *testing.T) {
	enc := newTestEncoder(t, 123)
	maxStep := 2 * math.Pi * enc.step * DefaultLevel * 32768 * 1.01
	for i := 0; i < 100; i++ { // past the fade-in
		enc.Next()
	}
	pp, ps := enc.Next()
	for i := 0; i < 44100; i++ {
		if i == 22050 {
			_ = enc.SetDirection(Backward)
		}
		p, s := enc.Next()
		if math.Abs(float64(p)-float64(pp)) > maxStep || math.Abs(float64(s)-float64(ps)) > maxStep {
			t.Fatalf("sample %d: jump (%d, %d) -> (%d, %d)", i, pp, ps, p, s)
		}
		pp, ps = p, s
	}
}

// The waveform is a function of the phase only, so playing backward
// retraces the forward samples.
func TestEncoder_TimeReversible(t *testing.T) {
	enc := newTestEncoder(t, 9000)
	const n = 2000
	forward := make([][2]int16, n)
	for i := range forward {
		forward[i][0], forward[i][1] = enc.Next()
	}
	_ = enc.SetDirection(Backward)
	enc.Next() // phase n, never played forward
	for j := 1; j < n-100; j++ {
		p, s := enc.Next()
		want := forward[n-j]
		if math.Abs(float64(p-want[0])) > 1 || math.Abs(float64(s-want[1])) > 1 {
			t.Fatalf("backward sample %d: (%d, %d), forward (%d, %d)", j, p, s, want[0], want[1])
		}
	}
}

func TestEncoder_SpeedZeroHolds(t *testing.T) {
	enc := newTestEncoder(t, 300)
	for i := 0; i < 100; i++ {
		enc.Next()
	}
	_ = enc.SetSpeed(0)
	p0, s0 := enc.Next()
	for i := 0; i < 100; i++ {
		if p, s := enc.Next(); p != p0 || s != s0 {
			t.Fatalf("sample %d moved while stopped", i)
		}
	}
}

func TestEncoder_SecondaryLeads(t *testing.T) {
	enc := newTestEncoder(t, 300)
	for i := 0; i < 100; i++ {
		enc.Next()
	}
	// Just past a cycle start the primary rises from zero while the
	// secondary sits at its positive peak.
	for enc.Phase() > 0.05 {
		enc.Next()
	}
	p, s := enc.Next()
	if p < 0 || s < 10000 {
		t.Errorf("at phase ~0: primary %d, secondary %d", p, s)
	}
}

func TestEncoder_Fill(t *testing.T) {
	a := newTestEncoder(t, 55)
	b := newTestEncoder(t, 55)
	buf := make([]int16, 201)
	buf[200] = 7
	a.Fill(buf)
	for i := 0; i < 100; i++ {
		p, s := b.Next()
		if buf[2*i] != p || buf[2*i+1] != s {
			t.Fatalf("frame %d: (%d, %d), want (%d, %d)", i, buf[2*i], buf[2*i+1], p, s)
		}
	}
	if buf[200] != 7 {
		t.Error("trailing odd sample was overwritten")
	}
}
