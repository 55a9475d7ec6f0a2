package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Camera.Width != 640 || cfg.Camera.Height != 360 {
		t.Errorf("expected 640x360 default resolution, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.Brightness != 70 {
		t.Errorf("expected brightness 70, got %d", cfg.Camera.Brightness)
	}
	if cfg.Optics.HorizontalFOVDegrees != 62.0 {
		t.Errorf("expected 62 degree FOV, got %.1f", cfg.Optics.HorizontalFOVDegrees)
	}
	if cfg.Optics.KnownWidthCM != 20.0 {
		t.Errorf("expected 20cm known width, got %.1f", cfg.Optics.KnownWidthCM)
	}
	if cfg.Alerting.CooldownSeconds != 3.0 {
		t.Errorf("expected 3s cooldown, got %.1f", cfg.Alerting.CooldownSeconds)
	}
	if cfg.Alerting.DangerDistanceCM != 150.0 {
		t.Errorf("expected 150cm danger distance, got %.1f", cfg.Alerting.DangerDistanceCM)
	}
	if cfg.Detection.Confidence != 0.45 {
		t.Errorf("expected confidence 0.45, got %.2f", cfg.Detection.Confidence)
	}
	if cfg.Detection.NMS != 0.2 {
		t.Errorf("expected NMS 0.2, got %.2f", cfg.Detection.NMS)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestLoadFromReader(t *testing.T) {
	yaml := `
server:
  addr: ":8080"
  log_level: debug
camera:
  device: 2
alerting:
  danger_distance_cm: 200.0
`
	cfg, err := LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Camera.Device != 2 {
		t.Errorf("expected camera device 2, got %d", cfg.Camera.Device)
	}
	if cfg.Alerting.DangerDistanceCM != 200.0 {
		t.Errorf("expected danger distance 200, got %.1f", cfg.Alerting.DangerDistanceCM)
	}
	// Untouched fields keep their defaults.
	if cfg.Camera.Width != 640 {
		t.Errorf("expected default width 640, got %d", cfg.Camera.Width)
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("camera:\n  focus: 3\n"))
	if err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vera.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("expected addr :7000, got %s", cfg.Server.Addr)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Errorf("expected default addr :5000, got %s", cfg.Server.Addr)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Run("whisper port", func(t *testing.T) {
		os.Setenv(EnvWhisperPort, "6001")
		defer os.Unsetenv(EnvWhisperPort)

		cfg := Default()
		ApplyEnv(cfg)
		if cfg.Server.STTAddr != ":6001" {
			t.Errorf("expected stt addr :6001, got %s", cfg.Server.STTAddr)
		}
	})

	t.Run("yolo model path", func(t *testing.T) {
		os.Setenv(EnvYOLOModel, "/opt/models/yolov8s.onnx")
		defer os.Unsetenv(EnvYOLOModel)

		cfg := Default()
		ApplyEnv(cfg)
		if cfg.Detection.YOLOModelPath != "/opt/models/yolov8s.onnx" {
			t.Errorf("expected overridden yolo model path, got %s", cfg.Detection.YOLOModelPath)
		}
	})

	t.Run("camera device", func(t *testing.T) {
		os.Setenv(EnvCameraDevice, "3")
		defer os.Unsetenv(EnvCameraDevice)

		cfg := Default()
		ApplyEnv(cfg)
		if cfg.Camera.Device != 3 {
			t.Errorf("expected camera device 3, got %d", cfg.Camera.Device)
		}
	})

	t.Run("invalid camera device ignored", func(t *testing.T) {
		os.Setenv(EnvCameraDevice, "front")
		defer os.Unsetenv(EnvCameraDevice)

		cfg := Default()
		ApplyEnv(cfg)
		if cfg.Camera.Device != 0 {
			t.Errorf("expected camera device to stay 0, got %d", cfg.Camera.Device)
		}
	})
}

func TestServiceURLs(t *testing.T) {
	cfg := Default()

	if got := cfg.STTURL(); got != "http://localhost:5001" {
		t.Errorf("expected http://localhost:5001, got %s", got)
	}

	os.Setenv(EnvWhisperURL, "http://vera-stt:9000")
	defer os.Unsetenv(EnvWhisperURL)
	if got := cfg.STTURL(); got != "http://vera-stt:9000" {
		t.Errorf("expected env override, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Server.LogLevel = "verbose" },
			wantErr: "log_level",
		},
		{
			name:    "zero width",
			mutate:  func(c *Config) { c.Camera.Width = 0 },
			wantErr: "resolution",
		},
		{
			name:    "fov too wide",
			mutate:  func(c *Config) { c.Optics.HorizontalFOVDegrees = 180 },
			wantErr: "horizontal_fov_degrees",
		},
		{
			name:    "negative known width",
			mutate:  func(c *Config) { c.Optics.KnownWidthCM = -1 },
			wantErr: "known_width_cm",
		},
		{
			name:    "confidence above one",
			mutate:  func(c *Config) { c.Detection.Confidence = 1.5 },
			wantErr: "confidence",
		},
		{
			name:    "negative cooldown",
			mutate:  func(c *Config) { c.Alerting.CooldownSeconds = -1 },
			wantErr: "cooldown_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
