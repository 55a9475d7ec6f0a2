// Package config provides configuration for go-vera commands.
// Values resolve in three layers: built-in defaults, an optional YAML
// file, then environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variables recognised by ApplyEnv. WHISPER_PORT,
// YOLO_PORT and YOLO_MODEL_PATH are kept for compatibility with
// existing deployment scripts.
const (
	EnvConfig       = "VERA_CONFIG"
	EnvAddr         = "VERA_ADDR"
	EnvMetricsAddr  = "VERA_METRICS_ADDR"
	EnvLogLevel     = "VERA_LOG_LEVEL"
	EnvCameraDevice = "VERA_CAMERA_DEVICE"
	EnvSpeechCmd    = "VERA_SPEECH_COMMAND"
	EnvWhisperPort  = "WHISPER_PORT"
	EnvWhisperModel = "WHISPER_MODEL_PATH"
	EnvYOLOPort     = "YOLO_PORT"
	EnvYOLOModel    = "YOLO_MODEL_PATH"
	EnvWhisperURL   = "WHISPER_SERVER_URL"
	EnvYOLOURL      = "YOLO_SERVICE_URL"
)

// Config is the root configuration shared by all go-vera binaries.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Camera    CameraConfig    `yaml:"camera"`
	Optics    OpticsConfig    `yaml:"optics"`
	Detection DetectionConfig `yaml:"detection"`
	Alerting  AlertingConfig  `yaml:"alerting"`
	Speech    SpeechConfig    `yaml:"speech"`
	STT       STTConfig       `yaml:"stt"`
}

// ServerConfig holds the listen addresses for the three services and
// the metrics sidecar listener.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	STTAddr     string `yaml:"stt_addr"`
	DetectAddr  string `yaml:"detect_addr"`
	LogLevel    string `yaml:"log_level"`
}

// CameraConfig describes the capture device.
type CameraConfig struct {
	Device     int `yaml:"device"`
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	Brightness int `yaml:"brightness"`
}

// OpticsConfig calibrates the monocular distance estimate.
type OpticsConfig struct {
	HorizontalFOVDegrees float64 `yaml:"horizontal_fov_degrees"`
	KnownWidthCM         float64 `yaml:"known_width_cm"`
}

// DetectionConfig points at the detection models and thresholds.
type DetectionConfig struct {
	WeightsPath   string  `yaml:"weights_path"`
	GraphPath     string  `yaml:"graph_path"`
	YOLOModelPath string  `yaml:"yolo_model_path"`
	Confidence    float32 `yaml:"confidence"`
	NMS           float32 `yaml:"nms"`
}

// AlertingConfig tunes the voice alert debouncing.
type AlertingConfig struct {
	CooldownSeconds  float64 `yaml:"cooldown_seconds"`
	MinDeltaCM       float64 `yaml:"min_delta_cm"`
	DangerDistanceCM float64 `yaml:"danger_distance_cm"`
}

// SpeechConfig selects the local speech synthesizer. An empty Command
// picks a platform default (say on darwin, espeak-ng elsewhere).
type SpeechConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// STTConfig configures the whisper transcription service.
type STTConfig struct {
	ModelPath string `yaml:"model_path"`
	ModelName string `yaml:"model_name"`
	Language  string `yaml:"language"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":5000",
			MetricsAddr: ":9091",
			STTAddr:     ":5001",
			DetectAddr:  ":5002",
			LogLevel:    "info",
		},
		Camera: CameraConfig{
			Device:     0,
			Width:      640,
			Height:     360,
			Brightness: 70,
		},
		Optics: OpticsConfig{
			HorizontalFOVDegrees: 62.0,
			KnownWidthCM:         20.0,
		},
		Detection: DetectionConfig{
			WeightsPath:   "models/frozen_inference_graph.pb",
			GraphPath:     "models/ssd_mobilenet_v3_large_coco_2020_01_14.pbtxt",
			YOLOModelPath: "models/yolov8n.onnx",
			Confidence:    0.45,
			NMS:           0.2,
		},
		Alerting: AlertingConfig{
			CooldownSeconds:  3.0,
			MinDeltaCM:       15.0,
			DangerDistanceCM: 150.0,
		},
		Speech: SpeechConfig{},
		STT: STTConfig{
			ModelPath: "models/ggml-base.en.bin",
			ModelName: "base",
			Language:  "en",
		},
	}
}

// ApplyEnv overrides cfg fields from the environment.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		cfg.Server.MetricsAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Server.LogLevel = v
	}
	if v := os.Getenv(EnvCameraDevice); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Camera.Device = n
		}
	}
	if v := os.Getenv(EnvSpeechCmd); v != "" {
		cfg.Speech.Command = v
	}
	if v := os.Getenv(EnvWhisperPort); v != "" {
		cfg.Server.STTAddr = ":" + v
	}
	if v := os.Getenv(EnvWhisperModel); v != "" {
		cfg.STT.ModelPath = v
	}
	if v := os.Getenv(EnvYOLOPort); v != "" {
		cfg.Server.DetectAddr = ":" + v
	}
	if v := os.Getenv(EnvYOLOModel); v != "" {
		cfg.Detection.YOLOModelPath = v
	}
}

// STTURL returns the base URL of the transcription service, honouring
// the WHISPER_SERVER_URL override.
func (c *Config) STTURL() string {
	if v := os.Getenv(EnvWhisperURL); v != "" {
		return v
	}
	return "http://localhost" + c.Server.STTAddr
}

// DetectURL returns the base URL of the detection service, honouring
// the YOLO_SERVICE_URL override.
func (c *Config) DetectURL() string {
	if v := os.Getenv(EnvYOLOURL); v != "" {
		return v
	}
	return "http://localhost" + c.Server.DetectAddr
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all failures found.
func Validate(cfg *Config) error {
	var errs []error

	switch cfg.Server.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.Camera.Width <= 0 || cfg.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera resolution %dx%d is invalid", cfg.Camera.Width, cfg.Camera.Height))
	}
	if cfg.Camera.Device < 0 {
		errs = append(errs, fmt.Errorf("camera.device %d is invalid", cfg.Camera.Device))
	}

	if cfg.Optics.HorizontalFOVDegrees <= 0 || cfg.Optics.HorizontalFOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("optics.horizontal_fov_degrees %.1f is out of range (0, 180)", cfg.Optics.HorizontalFOVDegrees))
	}
	if cfg.Optics.KnownWidthCM <= 0 {
		errs = append(errs, fmt.Errorf("optics.known_width_cm %.1f must be positive", cfg.Optics.KnownWidthCM))
	}

	if cfg.Detection.Confidence < 0 || cfg.Detection.Confidence > 1 {
		errs = append(errs, fmt.Errorf("detection.confidence %.2f is out of range [0, 1]", cfg.Detection.Confidence))
	}
	if cfg.Detection.NMS < 0 || cfg.Detection.NMS > 1 {
		errs = append(errs, fmt.Errorf("detection.nms %.2f is out of range [0, 1]", cfg.Detection.NMS))
	}

	if cfg.Alerting.CooldownSeconds < 0 {
		errs = append(errs, fmt.Errorf("alerting.cooldown_seconds %.1f must not be negative", cfg.Alerting.CooldownSeconds))
	}
	if cfg.Alerting.MinDeltaCM < 0 {
		errs = append(errs, fmt.Errorf("alerting.min_delta_cm %.1f must not be negative", cfg.Alerting.MinDeltaCM))
	}
	if cfg.Alerting.DangerDistanceCM <= 0 {
		errs = append(errs, fmt.Errorf("alerting.danger_distance_cm %.1f must be positive", cfg.Alerting.DangerDistanceCM))
	}

	return errors.Join(errs...)
}
