// Package navigator implements the capture/detect/annotate/stream
// loop at the heart of the application.
//
// A Navigator owns the per-process detection state: the distance
// estimator, the detection backend, the alert scheduler, the snapshot
// store, and the camera lease. One long-running Stream call exists per
// video consumer; the lease guarantees at most one of them ever holds
// the physical device, while the rest degrade to placeholder frames.
package navigator

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/veranav/go-vera/internal/metrics"
	"github.com/veranav/go-vera/pkg/alert"
	"github.com/veranav/go-vera/pkg/camera"
	"github.com/veranav/go-vera/pkg/detect"
	"github.com/veranav/go-vera/pkg/distance"
)

// Config carries the loop's tunables.
type Config struct {
	// Camera holds the capture device settings.
	Camera camera.Config

	// ConfThreshold and NMSThreshold are passed to the detector on
	// every frame.
	ConfThreshold float32
	NMSThreshold  float32

	// DangerCM is the distance at or under which a detection counts
	// as close and may trigger a voice alert.
	DangerCM float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		Camera:        camera.DefaultConfig(),
		ConfThreshold: 0.45,
		NMSThreshold:  0.2,
		DangerCM:      150.0,
	}
}

// Speaker queues a phrase for asynchronous playback.
// speech.Announcer satisfies this.
type Speaker interface {
	Say(text string) bool
}

// Publisher receives each processed frame's detections for fan-out.
// hub.Hub satisfies this. Implementations must not block.
type Publisher interface {
	Broadcast(detections []Detection)
}

// Deps are the collaborators a Navigator drives. Estimator, Detector,
// Scheduler, NewSource, and Lease are required; the rest are optional.
type Deps struct {
	Estimator *distance.Estimator
	Detector  detect.Detector
	Scheduler *alert.Scheduler
	NewSource func() camera.Source
	Lease     *camera.Lease

	Speaker   Speaker
	Publisher Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Navigator drives the capture loop and owns the detection snapshot.
type Navigator struct {
	cfg Config

	estimator *distance.Estimator
	detector  detect.Detector
	scheduler *alert.Scheduler
	speaker   Speaker
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger

	newSource func() camera.Source
	lease     *camera.Lease
	store     *Store

	placeholders *Placeholders

	// Injection points for tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// New builds a Navigator. Placeholder frames are rendered up front so
// the degraded branches never re-encode.
func New(cfg Config, deps Deps) (*Navigator, error) {
	switch {
	case deps.Estimator == nil:
		return nil, errors.New("navigator: estimator required")
	case deps.Detector == nil:
		return nil, errors.New("navigator: detector required")
	case deps.Scheduler == nil:
		return nil, errors.New("navigator: scheduler required")
	case deps.NewSource == nil:
		return nil, errors.New("navigator: camera source factory required")
	case deps.Lease == nil:
		return nil, errors.New("navigator: camera lease required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	placeholders, err := newPlaceholders(cfg.Camera.Width, cfg.Camera.Height)
	if err != nil {
		return nil, fmt.Errorf("navigator: render placeholders: %w", err)
	}

	return &Navigator{
		cfg:          cfg,
		estimator:    deps.Estimator,
		detector:     deps.Detector,
		scheduler:    deps.Scheduler,
		speaker:      deps.Speaker,
		publisher:    deps.Publisher,
		metrics:      deps.Metrics,
		logger:       deps.Logger.With("component", "navigator"),
		newSource:    deps.NewSource,
		lease:        deps.Lease,
		store:        NewStore(),
		placeholders: placeholders,
		sleep:        time.Sleep,
		now:          time.Now,
	}, nil
}

// Latest returns the most recent frame's detections.
func (n *Navigator) Latest() []Detection {
	return n.store.Latest()
}

// analyze runs detection over one frame, draws the overlays, replaces
// the snapshot, and schedules voice alerts for close objects.
func (n *Navigator) analyze(src image.Image) (*image.RGBA, error) {
	raws, err := n.detector.Detect(src, n.cfg.ConfThreshold, n.cfg.NMSThreshold)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	frame := cloneRGBA(src)
	detections := make([]Detection, 0, len(raws))
	now := n.now()

	for _, raw := range raws {
		label, ok := detect.LabelForClass(raw.ClassID)
		if !ok {
			continue
		}

		distCM, haveDist := n.estimator.EstimateCM(float64(raw.Width()))
		isClose := haveDist && distCM <= n.cfg.DangerCM

		drawRect(frame, raw.Box, rectThickness, annotationGreen)
		textY := max(raw.Box.Min.Y-10, 20)
		drawText(frame, labelText(label, distCM, haveDist), raw.Box.Min.X, textY, annotationGreen)

		detections = append(detections, NewDetection(label, distCM, haveDist, raw.Confidence, isClose))

		if isClose {
			if phrase, announce := n.scheduler.MaybeAnnounce(label, distCM, now); announce && n.speaker != nil {
				if n.speaker.Say(phrase) && n.metrics != nil {
					n.metrics.AlertsSpoken.Add(1)
				}
			}
		}
	}

	n.store.Set(detections)
	if n.publisher != nil {
		n.publisher.Broadcast(detections)
	}
	if n.metrics != nil {
		n.metrics.FramesProcessed.Add(1)
		n.metrics.DetectionsFound.Add(uint64(len(detections)))
	}

	return frame, nil
}
