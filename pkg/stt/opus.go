package stt

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/hraban/opus.v2"
)

// opusSampleRate is the rate libopusfile always decodes at.
const opusSampleRate = 48000

// DecodeOggOpus decodes a complete Ogg/Opus file to PCM. Voice clips
// from browser recorders are mono; multi-channel files are not
// supported.
func DecodeOggOpus(r io.Reader) (*Clip, error) {
	stream, err := opus.NewStream(r)
	if err != nil {
		return nil, fmt.Errorf("stt: open opus stream: %w", err)
	}
	defer stream.Close()

	// Decode buffer sized for the largest opus frame (120ms at 48kHz).
	buf := make([]int16, 5760)
	var samples []int16
	for {
		n, err := stream.Read(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stt: decode opus: %w", err)
		}
		samples = append(samples, buf[:n]...)
	}

	return &Clip{Samples: samples, SampleRate: opusSampleRate, Channels: 1}, nil
}
