package web

import (
	"bufio"
	_ "embed"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/veranav/go-vera/pkg/hub"
	"github.com/veranav/go-vera/pkg/navigator"
)

//go:embed index.html
var indexHTML []byte

// AppServer is the navigator's public HTTP server. It serves the
// embedded page, the MJPEG video feed, the detection snapshot, and the
// websocket detection push. nav and h must be non-nil.
type AppServer struct {
	app    *fiber.App
	nav    *navigator.Navigator
	hub    *hub.Hub
	logger *slog.Logger
}

// NewAppServer builds the app server and registers its routes.
func NewAppServer(nav *navigator.Navigator, h *hub.Hub, logger *slog.Logger) *AppServer {
	if logger == nil {
		logger = slog.Default()
	}

	s := &AppServer{
		nav:    nav,
		hub:    h,
		logger: logger.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Vera Navigator",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)
	app.Get("/video_feed", s.handleVideoFeed)
	app.Get("/latest_detections", s.handleLatestDetections)
	app.Get("/healthz", s.handleHealthz)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/detections", websocket.New(s.handleDetectionsWS))

	s.app = app
	return s
}

// App exposes the fiber app for tests.
func (s *AppServer) App() *fiber.App {
	return s.app
}

// Listen serves until Shutdown or a listener error.
func (s *AppServer) Listen(addr string) error {
	s.logger.Info("app server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *AppServer) Shutdown() error {
	return s.app.Shutdown()
}

// handleIndex serves the embedded viewer page.
func (s *AppServer) handleIndex(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(indexHTML)
}

// handleVideoFeed hands the connection to the navigator's stream loop.
// The loop writes multipart JPEG parts until the consumer disconnects.
func (s *AppServer) handleVideoFeed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, navigator.StreamContentType)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		s.nav.Stream(w)
	})
	return nil
}

// handleLatestDetections returns the most recent frame's detections.
func (s *AppServer) handleLatestDetections(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"detections": s.nav.Latest()})
}

// handleHealthz reports liveness.
func (s *AppServer) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "OK",
		"service": "Vera Navigator",
	})
}

// handleDetectionsWS subscribes the connection to the hub and blocks
// until it disconnects.
func (s *AppServer) handleDetectionsWS(c *websocket.Conn) {
	client := hub.NewClient(s.hub, c)
	s.logger.Debug("detections subscriber connected", "client", client.ID())
	client.Run()
}
