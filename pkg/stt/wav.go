package stt

import (
	"encoding/binary"
	"fmt"
)

// wavFormatPCM is the uncompressed PCM audio format tag.
const wavFormatPCM = 1

// DecodeWAV parses a RIFF/WAVE container holding 16-bit signed
// little-endian PCM and returns its samples. Mono and stereo files at
// any sample rate are accepted. Walking the chunk list is more robust
// than hardcoding a 44-byte header offset because the fmt chunk size
// may vary; chunks other than "fmt " and "data" are skipped.
func DecodeWAV(data []byte) (*Clip, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: too short for a RIFF header", ErrBadWAV)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrBadWAV)
	}

	var (
		clip    Clip
		haveFmt bool
	)

	// Walk chunks starting immediately after the 12-byte RIFF/WAVE header.
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, fmt.Errorf("%w: chunk %q overruns file", ErrBadWAV, chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("%w: fmt chunk too short", ErrBadWAV)
			}
			f := data[body : body+chunkSize]
			format := binary.LittleEndian.Uint16(f[0:2])
			channels := int(binary.LittleEndian.Uint16(f[2:4]))
			rate := int(binary.LittleEndian.Uint32(f[4:8]))
			bits := binary.LittleEndian.Uint16(f[14:16])
			if format != wavFormatPCM {
				return nil, fmt.Errorf("%w: audio format %d, want PCM", ErrBadWAV, format)
			}
			if bits != 16 {
				return nil, fmt.Errorf("%w: %d bits per sample, want 16", ErrBadWAV, bits)
			}
			if channels < 1 || channels > 2 {
				return nil, fmt.Errorf("%w: %d channels, want mono or stereo", ErrBadWAV, channels)
			}
			if rate <= 0 {
				return nil, fmt.Errorf("%w: invalid sample rate %d", ErrBadWAV, rate)
			}
			clip.SampleRate = rate
			clip.Channels = channels
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt", ErrBadWAV)
			}
			clip.Samples = bytesToSamples(data[body : body+chunkSize])
			return &clip, nil
		}

		// Chunks are word-aligned: odd sizes carry a pad byte.
		offset = body + chunkSize
		if chunkSize%2 != 0 {
			offset++
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrBadWAV)
	}
	return nil, fmt.Errorf("%w: missing data chunk", ErrBadWAV)
}

// bytesToSamples converts raw PCM16 little-endian bytes to int16 samples.
func bytesToSamples(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}
