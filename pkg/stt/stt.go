// Package stt turns recorded speech into text. Transcription runs fully
// locally through the whisper.cpp bindings; the package also decodes the
// audio containers the transcription endpoint accepts (RIFF/WAVE and
// Ogg/Opus) and converts them to the 16 kHz mono float32 form whisper
// models consume.
package stt

import (
	"context"
	"errors"
)

// SampleRate is the rate, in Hz, whisper models consume audio at.
const SampleRate = 16000

const defaultLanguage = "en"

var (
	// ErrNoModel is returned by NewEngine when no model path is given.
	ErrNoModel = errors.New("stt: model path required")

	// ErrEmptyAudio is returned when a clip holds zero samples.
	ErrEmptyAudio = errors.New("stt: no audio samples")

	// ErrBadWAV is returned for malformed RIFF/WAVE input.
	ErrBadWAV = errors.New("stt: malformed WAV file")

	// ErrUnknownFormat is returned when an upload is neither a RIFF/WAVE
	// nor an Ogg container.
	ErrUnknownFormat = errors.New("stt: unrecognized audio format")
)

// Result is a finished transcription.
type Result struct {
	Text     string
	Language string
}

// Transcriber converts spoken audio to text. Samples must be mono
// float32 PCM at SampleRate.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (Result, error)
	Close() error
}
