// Package distance estimates obstacle range from bounding-box geometry.
//
// The model is a pinhole camera: an object of known physical width
// occupying p pixels of the frame sits at roughly knownWidth*focal/p,
// where focal is the focal length in pixels derived from the camera's
// horizontal field of view.
package distance

import (
	"errors"
	"math"
)

// Estimator converts detected bounding-box widths to range estimates.
// One reference width is applied to every object class, so absolute
// accuracy is approximate and class-dependent in practice.
type Estimator struct {
	focalPX      float64
	knownWidthCM float64
}

// New creates an Estimator for a frame of the given pixel width and
// horizontal field of view. The focal length is derived once here.
func New(frameWidthPX int, fovDegrees, knownWidthCM float64) (*Estimator, error) {
	if frameWidthPX <= 0 {
		return nil, errors.New("distance: frame width must be positive")
	}
	if fovDegrees <= 0 || fovDegrees >= 180 {
		return nil, errors.New("distance: horizontal FOV must be in (0, 180) degrees")
	}
	if knownWidthCM <= 0 {
		return nil, errors.New("distance: known width must be positive")
	}

	halfFOVRad := (fovDegrees / 2.0) * (math.Pi / 180.0)
	return &Estimator{
		focalPX:      (float64(frameWidthPX) / 2.0) / math.Tan(halfFOVRad),
		knownWidthCM: knownWidthCM,
	}, nil
}

// FocalLengthPX returns the derived focal length in pixels.
func (e *Estimator) FocalLengthPX() float64 {
	return e.focalPX
}

// EstimateCM maps a bounding-box pixel width to a distance in
// centimeters. The second return is false when the width is not
// positive and no estimate exists.
func (e *Estimator) EstimateCM(boxWidthPX float64) (float64, bool) {
	if boxWidthPX <= 0 {
		return 0, false
	}
	return (e.knownWidthCM * e.focalPX) / boxWidthPX, true
}
