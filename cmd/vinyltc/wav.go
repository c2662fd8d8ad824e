package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	timecode "github.com/llehouerou/go-timecode"
	"github.com/llehouerou/go-timecode/internal/pcm"
)

const readFrames = 4096

// writeWAV writes frames stereo frames from enc to a 16-bit WAV file.
func writeWAV(path string, enc *timecode.Encoder, frames, sampleRate, framesPerBuffer int) (err error) {
	if framesPerBuffer <= 0 {
		return fmt.Errorf("invalid frames per buffer: %d", framesPerBuffer)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	w := wav.NewEncoder(out, sampleRate, 16, 2, 1)
	samples := make([]int16, 2*framesPerBuffer)
	buf := &audio.IntBuffer{
		Data:           make([]int, 2*framesPerBuffer),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 2},
		SourceBitDepth: 16,
	}
	for frames > 0 {
		n := min(frames, framesPerBuffer)
		enc.Fill(samples[:2*n])
		buf.Data = buf.Data[:2*n]
		for i, s := range samples[:2*n] {
			buf.Data[i] = int(s)
		}
		if err := w.Write(buf); err != nil {
			return err
		}
		frames -= n
	}
	return w.Close()
}

// readWAV reads a stereo WAV file as interleaved 16-bit samples.
func readWAV(path string) ([]int16, float64, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer in.Close()

	d := wav.NewDecoder(in)
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("%s: invalid wav file", path)
	}
	if d.NumChans != 2 {
		return nil, 0, fmt.Errorf("%s: %d channels, want stereo", path, d.NumChans)
	}
	bitDepth := int(d.BitDepth)
	sampleRate := float64(d.SampleRate)

	var samples []int16
	buf := &audio.IntBuffer{Data: make([]int, 2*readFrames), Format: &audio.Format{}}
	for {
		n, err := d.PCMBuffer(buf)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
		if n == 0 {
			break
		}
		for _, v := range buf.Data[:n] {
			samples = append(samples, pcm.Rescale(v, bitDepth))
		}
	}
	if len(samples) < 2 {
		return nil, 0, errors.New(path + ": no audio")
	}
	return samples[:len(samples)&^1], sampleRate, nil
}

// reverseFrames reverses the order of interleaved stereo frames in place.
func reverseFrames(samples []int16) {
	for i, j := 0, len(samples)/2-1; i < j; i, j = i+1, j-1 {
		samples[2*i], samples[2*j] = samples[2*j], samples[2*i]
		samples[2*i+1], samples[2*j+1] = samples[2*j+1], samples[2*i+1]
	}
}
