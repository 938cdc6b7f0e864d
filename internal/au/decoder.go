// Package au decodes Sun/NeXT audio (.au) files, the format some of the
// dispatch radio recordings ship in, into the 16-bit little-endian stereo
// PCM that Ebitengine's audio players consume.
package au

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	headerSize = 24
	magic      = 0x2e736e64 // ".snd" in big-endian

	encodingULaw  = 1 // 8-bit G.711 μ-law
	encodingPCM16 = 3 // 16-bit big-endian linear PCM
)

// header is the fixed part of an .au file.
type header struct {
	Magic      uint32
	DataOffset uint32
	DataSize   uint32 // 0xFFFFFFFF when unknown
	Encoding   uint32
	SampleRate uint32
	Channels   uint32
}

// Stream is a decoded .au file ready for audio.Context.NewPlayer.
type Stream struct {
	src        io.ReadSeeker
	length     int64
	sampleRate int
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) { return s.src.Read(p) }

// Seek implements io.Seeker.
func (s *Stream) Seek(offset int64, whence int) (int64, error) { return s.src.Seek(offset, whence) }

// Length returns the stream size in bytes.
func (s *Stream) Length() int64 { return s.length }

// SampleRate returns the sample rate of the stream in Hz.
func (s *Stream) SampleRate() int { return s.sampleRate }

// DecodeWithSampleRate decodes r and resamples it to sampleRate when the
// file was recorded at a different rate.
func DecodeWithSampleRate(sampleRate int, r io.Reader) (*Stream, error) {
	pcm, fileRate, err := Decode(r)
	if err != nil {
		return nil, err
	}

	if fileRate == sampleRate {
		return &Stream{src: bytes.NewReader(pcm), length: int64(len(pcm)), sampleRate: sampleRate}, nil
	}

	resampled := audio.Resample(bytes.NewReader(pcm), int64(len(pcm)), fileRate, sampleRate)
	return &Stream{src: resampled, length: resampled.(interface{ Length() int64 }).Length(), sampleRate: sampleRate}, nil
}

// Decode reads an .au file and returns 16-bit little-endian stereo PCM and
// the file's sample rate. Mono input is duplicated onto both channels.
func Decode(r io.Reader) ([]byte, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read AU file: %w", err)
	}
	if len(data) < headerSize {
		return nil, 0, fmt.Errorf("AU file too short: %d bytes (minimum %d)", len(data), headerSize)
	}

	var h header
	if err := binary.Read(bytes.NewReader(data), binary.BigEndian, &h); err != nil {
		return nil, 0, fmt.Errorf("failed to read AU header: %w", err)
	}
	if h.Magic != magic {
		return nil, 0, fmt.Errorf("invalid AU magic number: 0x%08x", h.Magic)
	}
	if h.Channels < 1 || h.Channels > 2 {
		return nil, 0, fmt.Errorf("unsupported channel count: %d (only 1-2 supported)", h.Channels)
	}
	if h.SampleRate == 0 {
		return nil, 0, fmt.Errorf("invalid sample rate: 0")
	}

	offset := int(h.DataOffset)
	if offset < headerSize || offset > len(data) {
		return nil, 0, fmt.Errorf("invalid data offset: %d (file size: %d)", offset, len(data))
	}
	body := data[offset:]
	if h.DataSize != 0xFFFFFFFF && int(h.DataSize) < len(body) {
		body = body[:h.DataSize]
	}

	var samples []int16
	switch h.Encoding {
	case encodingULaw:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = ulawToLinear(b)
		}
	case encodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(binary.BigEndian.Uint16(body[i*2:]))
		}
	default:
		return nil, 0, fmt.Errorf("unsupported AU encoding: %d", h.Encoding)
	}

	return toStereo(samples, int(h.Channels)), int(h.SampleRate), nil
}

// toStereo interleaves samples as 16-bit little-endian stereo frames.
func toStereo(samples []int16, channels int) []byte {
	frames := len(samples) / channels
	out := make([]byte, frames*4)
	for f := 0; f < frames; f++ {
		left := samples[f*channels]
		right := left
		if channels == 2 {
			right = samples[f*channels+1]
		}
		binary.LittleEndian.PutUint16(out[f*4:], uint16(left))
		binary.LittleEndian.PutUint16(out[f*4+2:], uint16(right))
	}
	return out
}

// ulawToLinear expands one G.711 μ-law byte.
func ulawToLinear(u byte) int16 {
	u = ^u
	exponent := (u >> 4) & 0x07
	mantissa := int32(u & 0x0F)
	sample := ((mantissa << 3) + 0x84) << exponent
	sample -= 0x84
	if u&0x80 != 0 {
		return int16(-sample)
	}
	return int16(sample)
}
