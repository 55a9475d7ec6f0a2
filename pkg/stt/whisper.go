// This file contains the whisper.cpp backed Engine. The whisper.cpp
// static library (libwhisper.a) and headers (whisper.h) must be
// available at link time via LIBRARY_PATH and C_INCLUDE_PATH.

package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Engine transcribes audio with a local whisper.cpp model. The model is
// loaded once at startup and shared; each Transcribe call creates its
// own whisper context, so concurrent calls are safe.
type Engine struct {
	model    whisperlib.Model
	language string
	logger   *slog.Logger
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithLanguage sets the transcription language code (e.g. "en", "de",
// "fr"). Defaults to "en".
func WithLanguage(lang string) Option {
	return func(e *Engine) { e.language = lang }
}

// WithLogger sets the logger used for non-fatal warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine loads a whisper.cpp model from the given file path. The
// caller must call Close when the engine is no longer needed.
func NewEngine(modelPath string, opts ...Option) (*Engine, error) {
	if modelPath == "" {
		return nil, ErrNoModel
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("stt: load model %q: %w", modelPath, err)
	}

	e := &Engine{
		model:    model,
		language: defaultLanguage,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Transcribe runs whisper inference over mono float32 samples at
// SampleRate and returns the concatenated segment text.
func (e *Engine) Transcribe(ctx context.Context, samples []float32) (Result, error) {
	if len(samples) == 0 {
		return Result{}, ErrEmptyAudio
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// Contexts are not thread-safe, but the model can be shared across
	// goroutines, so every call gets a fresh context.
	wctx, err := e.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("stt: create context: %w", err)
	}

	if err := wctx.SetLanguage(e.language); err != nil {
		e.logger.Warn("failed to set language, using model default",
			"language", e.language, "error", err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("stt: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("stt: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return Result{Text: strings.Join(parts, " "), Language: e.language}, nil
}

// Close releases the whisper model.
func (e *Engine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}

// Verify Engine implements Transcriber at compile time.
var _ Transcriber = (*Engine)(nil)
