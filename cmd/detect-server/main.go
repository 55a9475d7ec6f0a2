// YOLOv8 object detection service.
//
// Loads the ONNX model once at startup and serves detection requests
// for uploaded images and streamed video frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/veranav/go-vera/internal/config"
	"github.com/veranav/go-vera/internal/log"
	"github.com/veranav/go-vera/internal/metrics"
	"github.com/veranav/go-vera/pkg/detect"
	"github.com/veranav/go-vera/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default $VERA_CONFIG)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	modelPath := flag.String("model", "", "YOLO ONNX model path (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listener address (disabled when empty)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.DetectAddr = *addr
	}
	if *modelPath != "" {
		cfg.Detection.YOLOModelPath = *modelPath
	}
	if *debug {
		cfg.Server.LogLevel = "debug"
	}

	log.Init("detect-server", cfg.Server.LogLevel)
	logger := log.L()

	fmt.Println("🔍 YOLOv8 Object Detection")
	fmt.Printf("   Addr:  http://localhost%s\n", cfg.Server.DetectAddr)
	fmt.Printf("   Model: %s\n", cfg.Detection.YOLOModelPath)
	fmt.Println()

	yoloCfg := detect.DefaultYOLOConfig()
	yoloCfg.ModelPath = cfg.Detection.YOLOModelPath

	detector, err := detect.NewYOLO(yoloCfg)
	if err != nil {
		log.Fatal("model load failed", "model", yoloCfg.ModelPath, "error", err)
	}
	defer detector.Close()

	m := metrics.New()
	srv := web.NewDetectServer(detector, yoloCfg.ModelPath, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Listen(cfg.Server.DetectAddr)
	})
	if *metricsAddr != "" {
		g.Go(func() error {
			return m.Serve(ctx, *metricsAddr)
		})
	}
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
