package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"github.com/veranav/go-vera/internal/metrics"
	"github.com/veranav/go-vera/pkg/stt"
)

// STTServer is the local transcription service. It accepts audio file
// uploads and returns whisper transcriptions.
type STTServer struct {
	app         *fiber.App
	transcriber stt.Transcriber
	modelName   string
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewSTTServer builds the transcription server. modelName is the bare
// whisper model name ("base", "small", ...) reported by the health and
// models endpoints.
func NewSTTServer(t stt.Transcriber, modelName string, m *metrics.Metrics, logger *slog.Logger) *STTServer {
	if logger == nil {
		logger = slog.Default()
	}

	s := &STTServer{
		transcriber: t,
		modelName:   modelName,
		metrics:     m,
		logger:      logger.With("component", "stt"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Local Whisper Server",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)
	app.Post("/transcribe", s.handleTranscribe)
	app.Get("/models", s.handleModels)

	s.app = app
	return s
}

// App exposes the fiber app for tests.
func (s *STTServer) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown or a listener error.
func (s *STTServer) Listen(addr string) error {
	s.logger.Info("stt server listening", "addr", addr, "model", s.modelName)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *STTServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *STTServer) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"model":   "whisper-" + s.modelName,
		"service": "Local Whisper Server",
	})
}

// handleTranscribe decodes the uploaded clip and runs it through the
// transcriber. Decode and inference failures share one error shape.
func (s *STTServer) handleTranscribe(c *fiber.Ctx) error {
	reqID := uuid.NewString()

	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No audio file provided"})
	}
	if fh.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Empty filename"})
	}

	data, err := readUpload(fh)
	if err != nil {
		return s.transcribeFailed(c, reqID, err)
	}

	clip, err := stt.Decode(data)
	if err != nil {
		return s.transcribeFailed(c, reqID, err)
	}

	s.logger.Info("processing audio file",
		"request_id", reqID, "filename", fh.Filename, "duration", clip.Duration())

	result, err := s.transcriber.Transcribe(c.Context(), clip.Float32Mono(stt.SampleRate))
	if err != nil {
		return s.transcribeFailed(c, reqID, err)
	}

	if s.metrics != nil {
		s.metrics.Transcriptions.Add(1)
	}
	s.logger.Info("transcription complete", "request_id", reqID, "text", result.Text)

	return c.JSON(fiber.Map{
		"transcription": result.Text,
		"language":      result.Language,
		"success":       true,
	})
}

func (s *STTServer) transcribeFailed(c *fiber.Ctx, reqID string, err error) error {
	s.logger.Error("transcription failed", "request_id", reqID, "error", err)
	if s.metrics != nil {
		s.metrics.TranscriptionErrors.Add(1)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Transcription failed",
		"details": err.Error(),
	})
}

func (s *STTServer) handleModels(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"current_model":    s.modelName,
		"available_models": []string{"tiny", "base", "small", "medium", "large"},
		"model_info": fiber.Map{
			"tiny":   "Fastest, least accurate (~1GB RAM)",
			"base":   "Good balance (~1GB RAM)",
			"small":  "Better accuracy (~2GB RAM)",
			"medium": "High accuracy (~5GB RAM)",
			"large":  "Best accuracy (~10GB RAM)",
		},
	})
}
