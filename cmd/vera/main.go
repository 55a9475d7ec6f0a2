// Vera Navigator - wearable navigation aid for the visually impaired.
//
// Captures the chest camera, runs object detection, estimates object
// distance from bounding-box width, speaks proximity alerts, and
// serves the annotated MJPEG feed plus detection snapshots over HTTP
// and websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/veranav/go-vera/internal/config"
	"github.com/veranav/go-vera/internal/log"
	"github.com/veranav/go-vera/internal/metrics"
	"github.com/veranav/go-vera/pkg/alert"
	"github.com/veranav/go-vera/pkg/camera"
	"github.com/veranav/go-vera/pkg/detect"
	"github.com/veranav/go-vera/pkg/distance"
	"github.com/veranav/go-vera/pkg/hub"
	"github.com/veranav/go-vera/pkg/navigator"
	"github.com/veranav/go-vera/pkg/speech"
	"github.com/veranav/go-vera/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default $VERA_CONFIG)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	device := flag.Int("device", -1, "Camera device index (overrides config)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *device >= 0 {
		cfg.Camera.Device = *device
	}
	if *debug {
		cfg.Server.LogLevel = "debug"
	}

	log.Init("vera", cfg.Server.LogLevel)
	logger := log.L()

	fmt.Println("🦯 Vera Navigator")
	fmt.Printf("   App:     http://localhost%s\n", cfg.Server.Addr)
	fmt.Printf("   Metrics: http://localhost%s/metrics\n", cfg.Server.MetricsAddr)
	fmt.Printf("   Camera:  device %d (%dx%d)\n", cfg.Camera.Device, cfg.Camera.Width, cfg.Camera.Height)
	fmt.Println()

	m := metrics.New()

	estimator, err := distance.New(cfg.Camera.Width, cfg.Optics.HorizontalFOVDegrees, cfg.Optics.KnownWidthCM)
	if err != nil {
		log.Fatal("distance estimator setup failed", "error", err)
	}

	detector, err := detect.NewSSD(detect.SSDConfig{
		WeightsPath: cfg.Detection.WeightsPath,
		GraphPath:   cfg.Detection.GraphPath,
	})
	if err != nil {
		log.Fatal("detector setup failed", "error", err)
	}
	defer detector.Close()

	announcer, err := buildAnnouncer(cfg, logger)
	if err != nil {
		log.Fatal("speech setup failed", "error", err)
	}
	defer announcer.Close()

	h := hub.New(logger, m)
	go h.Run()
	defer h.Stop()

	camCfg := camera.Config{
		Device:     cfg.Camera.Device,
		Width:      cfg.Camera.Width,
		Height:     cfg.Camera.Height,
		Brightness: cfg.Camera.Brightness,
	}
	for _, warning := range camCfg.Validate() {
		logger.Warn("camera config", "warning", warning)
	}

	nav, err := navigator.New(navigator.Config{
		Camera:        camCfg,
		ConfThreshold: cfg.Detection.Confidence,
		NMSThreshold:  cfg.Detection.NMS,
		DangerCM:      cfg.Alerting.DangerDistanceCM,
	}, navigator.Deps{
		Estimator: estimator,
		Detector:  detector,
		Scheduler: alert.New(
			time.Duration(cfg.Alerting.CooldownSeconds*float64(time.Second)),
			cfg.Alerting.MinDeltaCM,
		),
		NewSource: func() camera.Source { return camera.NewDevice() },
		Lease:     camera.NewLease(),
		Speaker:   announcer,
		Publisher: h,
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		log.Fatal("navigator setup failed", "error", err)
	}

	srv := web.NewAppServer(nav, h, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Listen(cfg.Server.Addr)
	})
	g.Go(func() error {
		return m.Serve(ctx, cfg.Server.MetricsAddr)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server error", "error", err)
	}
	logger.Info("goodbye")
}

// buildAnnouncer wires the speech chain: the configured synthesizer
// first, the platform default as fallback when they differ.
func buildAnnouncer(cfg *config.Config, logger *slog.Logger) (*speech.Announcer, error) {
	command := cfg.Speech.Command
	if command == "" {
		command = speech.DefaultCommand()
	}

	primary, err := speech.NewExec(
		speech.WithCommand(command),
		speech.WithArgs(cfg.Speech.Args...),
		speech.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	engines := []speech.Engine{primary}
	if command != speech.DefaultCommand() {
		fallback, err := speech.NewExec(speech.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		engines = append(engines, fallback)
	}

	chain, err := speech.NewChainWithLogger(logger, engines...)
	if err != nil {
		return nil, err
	}
	return speech.NewAnnouncerWithLogger(logger, chain), nil
}
