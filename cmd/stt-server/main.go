// Local whisper transcription service.
//
// Loads a ggml whisper model once at startup and serves transcription
// requests for uploaded audio clips.
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
	"github.com/veranav/go-vera/pkg/stt"
	"github.com/veranav/go-vera/pkg/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default $VERA_CONFIG)")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	modelPath := flag.String("model", "", "Whisper model path (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listener address (disabled when empty)")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.STTAddr = *addr
	}
	if *modelPath != "" {
		cfg.STT.ModelPath = *modelPath
	}
	if *debug {
		cfg.Server.LogLevel = "debug"
	}

	log.Init("stt-server", cfg.Server.LogLevel)
	logger := log.L()

	fmt.Println("🎤 Local Whisper Server")
	fmt.Printf("   Addr:  http://localhost%s\n", cfg.Server.STTAddr)
	fmt.Printf("   Model: %s (%s)\n", cfg.STT.ModelPath, cfg.STT.ModelName)
	fmt.Println()

	engine, err := stt.NewEngine(cfg.STT.ModelPath,
		stt.WithLanguage(cfg.STT.Language),
		stt.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("whisper model load failed", "model", cfg.STT.ModelPath, "error", err)
	}
	defer engine.Close()

	m := metrics.New()
	srv := web.NewSTTServer(engine, cfg.STT.ModelName, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Listen(cfg.Server.STTAddr)
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
