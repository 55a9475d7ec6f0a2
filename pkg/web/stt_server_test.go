package web

import (
	"bytes"
	"encoding/binary"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/veranav/go-vera/internal/metrics"
	"github.com/veranav/go-vera/pkg/stt"
)

// postFile uploads payload as a multipart file field.
func postFile(t *testing.T, app *fiber.App, path, field, filename string, payload []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	return resp
}

// wavBytes builds a minimal 16 kHz mono PCM clip.
func wavBytes(samples ...int16) []byte {
	var pcm bytes.Buffer
	for _, s := range samples {
		binary.Write(&pcm, binary.LittleEndian, s)
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36+pcm.Len()))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(&out, binary.LittleEndian, uint16(1))     // mono
	binary.Write(&out, binary.LittleEndian, uint32(16000)) // sample rate
	binary.Write(&out, binary.LittleEndian, uint32(32000)) // byte rate
	binary.Write(&out, binary.LittleEndian, uint16(2))     // block align
	binary.Write(&out, binary.LittleEndian, uint16(16))    // bits per sample
	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(pcm.Len()))
	out.Write(pcm.Bytes())
	return out.Bytes()
}

func TestSTTHealth(t *testing.T) {
	s := NewSTTServer(stt.NewMock(""), "base", nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["status"] != "OK" {
		t.Errorf("status = %v, want OK", body["status"])
	}
	if body["model"] != "whisper-base" {
		t.Errorf("model = %v, want whisper-base", body["model"])
	}
	if body["service"] != "Local Whisper Server" {
		t.Errorf("service = %v, want Local Whisper Server", body["service"])
	}
}

func TestTranscribeSuccess(t *testing.T) {
	mock := stt.NewMock("turn left at the door")
	m := metrics.New()
	s := NewSTTServer(mock, "base", m, nil)

	resp := postFile(t, s.App(), "/transcribe", "audio", "clip.wav", wavBytes(0, 1200, -800, 300))

	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["transcription"] != "turn left at the door" {
		t.Errorf("transcription = %v, want the canned text", body["transcription"])
	}
	if body["language"] != "en" {
		t.Errorf("language = %v, want en", body["language"])
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}

	if mock.CallCount("Transcribe") != 1 {
		t.Errorf("Transcribe calls = %d, want 1", mock.CallCount("Transcribe"))
	}
	// Already 16 kHz mono, so the sample count passes through.
	if last := mock.LastCall(); last == nil || last.Samples != 4 {
		t.Errorf("LastCall = %+v, want 4 samples", last)
	}
	if m.Transcriptions.Load() != 1 {
		t.Errorf("Transcriptions = %d, want 1", m.Transcriptions.Load())
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	s := NewSTTServer(stt.NewMock(""), "base", nil, nil)

	req := httptest.NewRequest("POST", "/transcribe", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 400 {
		t.Errorf("Status = %d, want 400", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "No audio file provided" {
		t.Errorf("error = %v, want No audio file provided", body["error"])
	}
}

func TestTranscribeBadAudio(t *testing.T) {
	mock := stt.NewMock("should not run")
	m := metrics.New()
	s := NewSTTServer(mock, "base", m, nil)

	resp := postFile(t, s.App(), "/transcribe", "audio", "clip.wav", []byte("definitely not audio"))

	if resp.StatusCode != 500 {
		t.Fatalf("Status = %d, want 500", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["error"] != "Transcription failed" {
		t.Errorf("error = %v, want Transcription failed", body["error"])
	}
	if details, _ := body["details"].(string); details == "" {
		t.Error("details should name the decode failure")
	}

	if mock.CallCount("Transcribe") != 0 {
		t.Errorf("Transcribe calls = %d, want 0", mock.CallCount("Transcribe"))
	}
	if m.TranscriptionErrors.Load() != 1 {
		t.Errorf("TranscriptionErrors = %d, want 1", m.TranscriptionErrors.Load())
	}
}

func TestTranscribeEngineError(t *testing.T) {
	mock := stt.WithError(errors.New("inference ran out of memory"))
	s := NewSTTServer(mock, "base", nil, nil)

	resp := postFile(t, s.App(), "/transcribe", "audio", "clip.wav", wavBytes(0, 100, 200))

	if resp.StatusCode != 500 {
		t.Fatalf("Status = %d, want 500", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["error"] != "Transcription failed" {
		t.Errorf("error = %v, want Transcription failed", body["error"])
	}
	details, _ := body["details"].(string)
	if !strings.Contains(details, "inference ran out of memory") {
		t.Errorf("details = %q, want the engine error", details)
	}
}

func TestSTTModels(t *testing.T) {
	s := NewSTTServer(stt.NewMock(""), "base", nil, nil)

	req := httptest.NewRequest("GET", "/models", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["current_model"] != "base" {
		t.Errorf("current_model = %v, want base", body["current_model"])
	}

	models, _ := body["available_models"].([]any)
	if len(models) != 5 {
		t.Fatalf("available_models = %v, want 5 entries", body["available_models"])
	}
	if models[0] != "tiny" || models[4] != "large" {
		t.Errorf("available_models = %v, want tiny..large", models)
	}

	info, _ := body["model_info"].(map[string]any)
	if info["base"] != "Good balance (~1GB RAM)" {
		t.Errorf(`model_info["base"] = %v, want the base description`, info["base"])
	}
}
