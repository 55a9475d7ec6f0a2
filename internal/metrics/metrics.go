// Package metrics exposes go-vera counters to Prometheus.
// Counters are plain atomics updated from the hot paths; a private
// registry wraps them in gauge collectors served by promhttp.
package metrics

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics.
type Metrics struct {
	// Navigator loop
	FramesProcessed atomic.Uint64
	DetectionsFound atomic.Uint64
	AlertsSpoken    atomic.Uint64
	ReadErrors      atomic.Uint64
	EncodeErrors    atomic.Uint64

	// Stream consumers
	StreamClients   atomic.Uint64 // currently connected
	StreamsRejected atomic.Uint64 // lost the camera lease

	// Detections websocket hub
	HubClients  atomic.Uint64
	HubDropped  atomic.Uint64

	// Auxiliary services
	Transcriptions      atomic.Uint64
	TranscriptionErrors atomic.Uint64
	DetectRequests      atomic.Uint64
	DetectErrors        atomic.Uint64

	registry *prometheus.Registry
}

// New creates a Metrics instance with its collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.gauge("vera_frames_processed_total", "Total camera frames run through detection",
		&m.FramesProcessed)
	m.gauge("vera_detections_total", "Total detections surviving thresholds",
		&m.DetectionsFound)
	m.gauge("vera_alerts_spoken_total", "Total voice alerts enqueued",
		&m.AlertsSpoken)
	m.gauge("vera_camera_read_errors_total", "Total camera read failures",
		&m.ReadErrors)
	m.gauge("vera_encode_errors_total", "Total JPEG encode failures",
		&m.EncodeErrors)
	m.gauge("vera_stream_clients", "Currently connected video stream clients",
		&m.StreamClients)
	m.gauge("vera_streams_rejected_total", "Stream requests that lost the camera lease",
		&m.StreamsRejected)
	m.gauge("vera_hub_clients", "Currently connected detections websocket clients",
		&m.HubClients)
	m.gauge("vera_hub_dropped_total", "Hub messages dropped for slow clients",
		&m.HubDropped)
	m.gauge("vera_transcriptions_total", "Total successful transcriptions",
		&m.Transcriptions)
	m.gauge("vera_transcription_errors_total", "Total failed transcriptions",
		&m.TranscriptionErrors)
	m.gauge("vera_detect_requests_total", "Total detection service requests",
		&m.DetectRequests)
	m.gauge("vera_detect_errors_total", "Total detection service failures",
		&m.DetectErrors)

	return m
}

func (m *Metrics) gauge(name, help string, v *atomic.Uint64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: name, Help: help},
		func() float64 { return float64(v.Load()) },
	))
}

// Handler returns the Prometheus HTTP handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve serves /metrics on addr until ctx is cancelled, then shuts the
// listener down with a short grace period.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
