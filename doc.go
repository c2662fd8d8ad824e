// Package timecode decodes and generates vinyl emulation control signals.
//
// A control record or CD carries a stereo signal instead of music. Both
// channels play the same carrier a quarter cycle apart, so the order of
// their zero crossings gives the playback direction and the crossing rate
// gives the speed. Every carrier cycle also carries one bit of a maximal
// length LFSR sequence in its amplitude. Any run of consecutive bits as
// long as the register identifies a unique absolute position.
//
// # Basic Usage
//
// To follow a turntable:
//
//	dec := timecode.NewDecoder(timecode.SeratoControlCD())
//
//	for each sample pair (left, right) {
//	    if r, ok := dec.Process(left, right); ok && r.Valid {
//	        // r.Position is the cycle just read
//	    }
//	}
//	fmt.Println(dec.Pitch(), dec.Direction())
//
// To generate a signal:
//
//	enc, err := timecode.NewEncoder(timecode.SeratoControlCD(), 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	buf := make([]int16, 2*1024)
//	enc.Fill(buf) // interleaved left/right
//
// # Formats
//
// A Format describes the carrier frequency, the LFSR (width, taps, seed),
// the number of usable positions, the amplitude of a 0 bit and which
// channel leads. SeratoControlCD is built in. Building a format enumerates
// the whole sequence once, so formats are meant to be shared.
//
// # Thread Safety
//
// Decoder and Encoder instances are NOT safe for concurrent use. Each
// audio stream should have its own session. Formats are immutable and may
// be shared freely.
package timecode
