// Package camera provides frame sources for the navigator and the
// exclusive-ownership lease that keeps two streams from fighting over
// the same physical device.
package camera

import (
	"errors"
	"image"
)

// Sentinel errors returned by sources. Callers match on these to pick
// the right placeholder for the video feed.
var (
	// ErrUnavailable means the device could not be opened at all.
	ErrUnavailable = errors.New("camera: device unavailable")

	// ErrReadFailed means an opened device stopped producing frames.
	ErrReadFailed = errors.New("camera: read failed")
)

// Config holds capture device settings.
type Config struct {
	// Device is the V4L2 device index passed to the capture backend.
	Device int `yaml:"device"`

	// Width and Height are requested capture dimensions in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Brightness is the requested sensor brightness (0-100).
	Brightness int `yaml:"brightness"`
}

// DefaultConfig returns the capture settings tuned for the wearable
// rig: a low resolution keeps per-frame inference under the camera
// frame interval on small boards.
func DefaultConfig() Config {
	return Config{
		Device:     0,
		Width:      640,
		Height:     360,
		Brightness: 70,
	}
}

// Validate returns a list of problems with the config.
// An empty list means the config is valid.
func (c Config) Validate() []string {
	var problems []string

	if c.Device < 0 {
		problems = append(problems, "device index must not be negative")
	}
	if c.Width <= 0 {
		problems = append(problems, "width must be positive")
	}
	if c.Height <= 0 {
		problems = append(problems, "height must be positive")
	}
	if c.Brightness < 0 || c.Brightness > 100 {
		problems = append(problems, "brightness must be between 0 and 100")
	}

	return problems
}

// Source produces frames from a camera.
//
// A source is single-owner: the stream loop that opened it is the only
// goroutine reading from it. Exclusion between streams is handled by
// Lease, not by the source.
type Source interface {
	// Open prepares the device for reading.
	Open(cfg Config) error

	// Read returns the next frame. It returns ErrReadFailed when the
	// device stops delivering frames.
	Read() (image.Image, error)

	// Close releases the device. Safe to call on an unopened source.
	Close() error
}
