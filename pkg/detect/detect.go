// Package detect provides object detection backends for go-vera.
// Frames travel as stdlib image.Image; gocv is confined to the DNN
// backends so callers and tests never need OpenCV.
package detect

import "image"

// RawDetection is one surviving bounding box as reported by a model.
// ClassID carries the model's raw class index; for the SSD graph that
// index is 1-based with 0 reserved for background.
type RawDetection struct {
	ClassID    int
	Confidence float64
	Box        image.Rectangle
}

// Width returns the box width in pixels.
func (d RawDetection) Width() int {
	return d.Box.Dx()
}

// Height returns the box height in pixels.
func (d RawDetection) Height() int {
	return d.Box.Dy()
}

// Detector is the interface for detection backends.
type Detector interface {
	// Detect finds objects in img, keeping boxes at or above
	// confThreshold and suppressing overlaps above nmsThreshold.
	Detect(img image.Image, confThreshold, nmsThreshold float32) ([]RawDetection, error)

	// Close releases resources
	Close() error
}
