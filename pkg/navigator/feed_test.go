package navigator

import (
	"bufio"
	"bytes"
	"image/jpeg"
	"testing"
)

func TestWritePartFraming(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	payload := []byte("JPEGDATA")
	if err := writePart(w, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "--frame\r\nContent-Type: image/jpeg\r\n\r\nJPEGDATA\r\n"
	if got := buf.String(); got != want {
		t.Errorf("expected part %q, got %q", want, got)
	}
}

func TestStreamContentType(t *testing.T) {
	want := "multipart/x-mixed-replace; boundary=frame"
	if StreamContentType != want {
		t.Errorf("expected content type %q, got %q", want, StreamContentType)
	}
}

func TestPlaceholdersAreValidJPEG(t *testing.T) {
	placeholders, err := newPlaceholders(640, 360)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		jpg  []byte
	}{
		{"in use", placeholders.InUse},
		{"unavailable", placeholders.Unavailable},
		{"read failed", placeholders.ReadFailed},
		{"encode failed", placeholders.EncodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(tt.jpg))
			if err != nil {
				t.Fatalf("expected a decodable JPEG, got %v", err)
			}
			if cfg.Width != 640 || cfg.Height != 360 {
				t.Errorf("expected 640x360, got %dx%d", cfg.Width, cfg.Height)
			}
		})
	}
}

func TestPlaceholdersDiffer(t *testing.T) {
	placeholders, err := newPlaceholders(640, 360)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bytes.Equal(placeholders.InUse, placeholders.Unavailable) {
		t.Error("expected distinct placeholder frames for distinct messages")
	}
}

func TestEncodeJPEGRoundTrip(t *testing.T) {
	frame := cloneRGBA(testImage(64, 48))

	jpg, err := encodeJPEG(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(jpg))
	if err != nil {
		t.Fatalf("expected a decodable JPEG, got %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("expected 64x48, got %dx%d", cfg.Width, cfg.Height)
	}
}
