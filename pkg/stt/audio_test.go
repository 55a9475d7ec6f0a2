package stt

import (
	"errors"
	"testing"
	"time"
)

func TestClipDuration(t *testing.T) {
	tests := []struct {
		name string
		clip Clip
		want time.Duration
	}{
		{"one second mono", Clip{Samples: make([]int16, 16000), SampleRate: 16000, Channels: 1}, time.Second},
		{"one second stereo", Clip{Samples: make([]int16, 32000), SampleRate: 16000, Channels: 2}, time.Second},
		{"half second", Clip{Samples: make([]int16, 24000), SampleRate: 48000, Channels: 1}, 500 * time.Millisecond},
		{"empty", Clip{SampleRate: 16000, Channels: 1}, 0},
		{"zero rate", Clip{Samples: make([]int16, 100)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clip.Duration(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClipFloat32MonoDownmixesAndResamples(t *testing.T) {
	// Six stereo frames at 48 kHz resample to two mono frames at 16 kHz.
	clip := Clip{
		Samples:    []int16{16384, 16384, 0, 0, 0, 0, 8192, 8192, 0, 0, 0, 0},
		SampleRate: 48000,
		Channels:   2,
	}

	got := clip.Float32Mono(16000)
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	if !floatsClose(got[0], 0.5) {
		t.Errorf("expected first sample 0.5, got %v", got[0])
	}
	if !floatsClose(got[1], 0.25) {
		t.Errorf("expected second sample 0.25, got %v", got[1])
	}
}

func TestDecodeSniffsWAV(t *testing.T) {
	wav := buildWAV(
		fmtChunk(wavFormatPCM, 1, 16000, 16),
		dataChunk(1, 2, 3),
	)

	clip, err := Decode(wav)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if clip.SampleRate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", clip.SampleRate)
	}
	if len(clip.Samples) != 3 {
		t.Errorf("expected 3 samples, got %d", len(clip.Samples))
	}
}

func TestDecodeRejectsUnknownContainer(t *testing.T) {
	_, err := Decode([]byte("this is not audio"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	_, err = Decode(nil)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for empty input, got %v", err)
	}
}

func TestDecodeRejectsCorruptOgg(t *testing.T) {
	// Valid magic but garbage page data.
	data := append([]byte("OggS"), make([]byte, 64)...)
	if _, err := Decode(data); err == nil {
		t.Fatal("expected error for corrupt ogg data, got nil")
	}
}
