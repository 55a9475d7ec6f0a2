package stt

import (
	"bytes"
	"time"
)

// Clip is decoded PCM audio from an uploaded file.
type Clip struct {
	Samples    []int16 // interleaved signed 16-bit PCM
	SampleRate int
	Channels   int
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 || c.Channels <= 0 {
		return 0
	}
	frames := len(c.Samples) / c.Channels
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// Float32Mono converts the clip to mono float32 at the requested sample
// rate. Stereo clips are down-mixed by averaging channels; rate
// conversion uses linear interpolation.
func (c *Clip) Float32Mono(rate int) []float32 {
	mono := monoFloat32(c.Samples, c.Channels)
	return resampleFloat32(mono, c.SampleRate, rate)
}

// Decode sniffs the container format of an uploaded audio file and
// decodes it. RIFF/WAVE and Ogg/Opus are supported.
func Decode(data []byte) (*Clip, error) {
	switch {
	case len(data) >= 4 && string(data[0:4]) == "RIFF":
		return DecodeWAV(data)
	case len(data) >= 4 && string(data[0:4]) == "OggS":
		return DecodeOggOpus(bytes.NewReader(data))
	default:
		return nil, ErrUnknownFormat
	}
}
