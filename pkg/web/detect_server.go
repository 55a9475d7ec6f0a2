package web

import (
	"bytes"
	"image"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/veranav/go-vera/internal/metrics"
	"github.com/veranav/go-vera/pkg/detect"
)

// Detection thresholds for the two REST endpoints. Single images use
// the stricter filter; streamed video frames trade accuracy for
// recall.
const (
	imageConfThreshold float32 = 0.4
	imageNMSThreshold  float32 = 0.7
	frameConfThreshold float32 = 0.35
	frameNMSThreshold  float32 = 0.45
)

// DetectionResult is one /detect entry. BBox is [x, y, w, h] and Box
// is [x1, y1, x2, y2], both in the source image's pixel space.
type DetectionResult struct {
	ClassName  string    `json:"class_name"`
	ClassID    int       `json:"class_id"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox"`
	Box        []float64 `json:"box"`
}

// FrameDetection is one /detect-video-frame entry.
type FrameDetection struct {
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox"`
}

// DetectServer is the object detection service. It accepts image
// uploads over REST and binary JPEG frames over a websocket.
type DetectServer struct {
	app       *fiber.App
	detector  detect.Detector
	modelPath string
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewDetectServer builds the detection server. modelPath is reported
// by the health endpoint.
func NewDetectServer(d detect.Detector, modelPath string, m *metrics.Metrics, logger *slog.Logger) *DetectServer {
	if logger == nil {
		logger = slog.Default()
	}

	s := &DetectServer{
		detector:  d,
		modelPath: modelPath,
		metrics:   m,
		logger:    logger.With("component", "detect"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "YOLOv8 Object Detection",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)
	app.Post("/detect", s.handleDetect)
	app.Post("/detect-video-frame", s.handleDetectFrame)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// App exposes the fiber app for tests.
func (s *DetectServer) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown or a listener error.
func (s *DetectServer) Listen(addr string) error {
	s.logger.Info("detect server listening", "addr", addr, "model", s.modelPath)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *DetectServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *DetectServer) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"service": "YOLOv8 Object Detection",
		"model":   s.modelPath,
		"version": "1.0.0",
	})
}

// handleDetect runs full detection over a single uploaded image.
func (s *DetectServer) handleDetect(c *fiber.Ctx) error {
	start := time.Now()

	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No image file provided"})
	}
	img, err := decodeUploadImage(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid image file"})
	}

	if s.metrics != nil {
		s.metrics.DetectRequests.Add(1)
	}

	raws, err := s.detector.Detect(img, imageConfThreshold, imageNMSThreshold)
	if err != nil {
		if s.metrics != nil {
			s.metrics.DetectErrors.Add(1)
		}
		s.logger.Error("detection failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Detection failed",
			"details": err.Error(),
		})
	}

	detections := make([]DetectionResult, 0, len(raws))
	for _, raw := range raws {
		name, ok := detect.ClassName(raw.ClassID)
		if !ok {
			continue
		}
		x1 := float64(raw.Box.Min.X)
		y1 := float64(raw.Box.Min.Y)
		x2 := float64(raw.Box.Max.X)
		y2 := float64(raw.Box.Max.Y)
		detections = append(detections, DetectionResult{
			ClassName:  name,
			ClassID:    raw.ClassID,
			Confidence: round(raw.Confidence, 3),
			BBox:       []float64{round(x1, 2), round(y1, 2), round(x2-x1, 2), round(y2-y1, 2)},
			Box:        []float64{round(x1, 2), round(y1, 2), round(x2, 2), round(y2, 2)},
		})
	}

	return c.JSON(fiber.Map{
		"detections":      detections,
		"count":           len(detections),
		"processing_time": round(time.Since(start).Seconds(), 3),
		"image_size": fiber.Map{
			"width":  img.Bounds().Dx(),
			"height": img.Bounds().Dy(),
		},
	})
}

// handleDetectFrame runs the video tuning over one uploaded frame.
func (s *DetectServer) handleDetectFrame(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No image file provided"})
	}
	img, err := decodeUploadImage(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid image file"})
	}

	if s.metrics != nil {
		s.metrics.DetectRequests.Add(1)
	}

	detections, err := s.frameDetections(img)
	if err != nil {
		if s.metrics != nil {
			s.metrics.DetectErrors.Add(1)
		}
		s.logger.Error("detection failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"detections": detections,
		"count":      len(detections),
	})
}

// handleFramesWS answers each binary JPEG frame with the
// detect-video-frame JSON shape. The connection ends when the client
// goes away.
func (s *DetectServer) handleFramesWS(c *websocket.Conn) {
	s.logger.Info("frame stream connected", "remote", c.RemoteAddr().String())
	defer s.logger.Info("frame stream disconnected", "remote", c.RemoteAddr().String())

	for {
		mt, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			if werr := c.WriteJSON(fiber.Map{"error": "Invalid image file"}); werr != nil {
				return
			}
			continue
		}

		if s.metrics != nil {
			s.metrics.DetectRequests.Add(1)
		}

		detections, err := s.frameDetections(img)
		if err != nil {
			if s.metrics != nil {
				s.metrics.DetectErrors.Add(1)
			}
			s.logger.Error("detection failed", "error", err)
			if werr := c.WriteJSON(fiber.Map{"error": err.Error()}); werr != nil {
				return
			}
			continue
		}

		if err := c.WriteJSON(fiber.Map{"detections": detections, "count": len(detections)}); err != nil {
			return
		}
	}
}

// frameDetections runs the video-frame tuning and shapes the result.
func (s *DetectServer) frameDetections(img image.Image) ([]FrameDetection, error) {
	raws, err := s.detector.Detect(img, frameConfThreshold, frameNMSThreshold)
	if err != nil {
		return nil, err
	}

	detections := make([]FrameDetection, 0, len(raws))
	for _, raw := range raws {
		name, ok := detect.ClassName(raw.ClassID)
		if !ok {
			continue
		}
		detections = append(detections, FrameDetection{
			ClassName:  name,
			Confidence: round(raw.Confidence, 2),
			BBox: []float64{
				round(float64(raw.Box.Min.X), 1),
				round(float64(raw.Box.Min.Y), 1),
				round(float64(raw.Box.Dx()), 1),
				round(float64(raw.Box.Dy()), 1),
			},
		})
	}
	return detections, nil
}
