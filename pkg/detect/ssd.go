package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// SSD MobileNet V3 preprocessing, matching the frozen graph's training
// configuration.
const (
	ssdInputSize = 320
	ssdScale     = 1.0 / 127.5
	ssdMean      = 127.5
)

// SSDConfig holds SSD detector configuration.
type SSDConfig struct {
	WeightsPath string // frozen_inference_graph.pb
	GraphPath   string // ssd_mobilenet_v3_large pbtxt
}

// DefaultSSDConfig returns the standard model paths.
func DefaultSSDConfig() SSDConfig {
	return SSDConfig{
		WeightsPath: "models/frozen_inference_graph.pb",
		GraphPath:   "models/ssd_mobilenet_v3_large_coco_2020_01_14.pbtxt",
	}
}

// SSDDetector runs SSD MobileNet V3 object detection. Class IDs in its
// results are the graph's one-indexed COCO IDs with 0 as background.
type SSDDetector struct {
	net gocv.Net
	mu  sync.Mutex
}

// NewSSD creates an SSD MobileNet detector from a TensorFlow frozen
// graph and its text graph description.
func NewSSD(cfg SSDConfig) (*SSDDetector, error) {
	if _, err := os.Stat(cfg.WeightsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.WeightsPath)
	}
	if _, err := os.Stat(cfg.GraphPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("graph file not found: %s", cfg.GraphPath)
	}

	net := gocv.ReadNet(cfg.WeightsPath, cfg.GraphPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load SSD model from %s", cfg.WeightsPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &SSDDetector{net: net}, nil
}

// Detect finds objects in the frame.
func (d *SSDDetector) Detect(img image.Image, confThreshold, nmsThreshold float32) ([]RawDetection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	imgW := float32(mat.Cols())
	imgH := float32(mat.Rows())

	blob := gocv.BlobFromImage(mat, ssdScale, image.Pt(ssdInputSize, ssdInputSize),
		gocv.NewScalar(ssdMean, ssdMean, ssdMean, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	return parseSSDOutput(output, imgW, imgH, confThreshold, nmsThreshold), nil
}

// parseSSDOutput decodes the [1,1,N,7] detection tensor. Each row is
// [batchID, classID, confidence, left, top, right, bottom] with the
// corners normalized to the frame.
func parseSSDOutput(output gocv.Mat, imgW, imgH, confThreshold, nmsThreshold float32) []RawDetection {
	var boxes []image.Rectangle
	var confidences []float32
	var classIDs []int

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil
	}

	for i := 0; i+7 <= len(data); i += 7 {
		confidence := data[i+2]
		if confidence < confThreshold {
			continue
		}

		classID := int(data[i+1])
		x1 := int(data[i+3] * imgW)
		y1 := int(data[i+4] * imgH)
		x2 := int(data[i+5] * imgW)
		y2 := int(data[i+6] * imgH)

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		confidences = append(confidences, confidence)
		classIDs = append(classIDs, classID)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := gocv.NMSBoxes(boxes, confidences, confThreshold, nmsThreshold)

	detections := make([]RawDetection, 0, len(indices))
	for _, idx := range indices {
		detections = append(detections, RawDetection{
			ClassID:    classIDs[idx],
			Confidence: float64(confidences[idx]),
			Box:        boxes[idx],
		})
	}
	return detections
}

// Close releases the detector resources.
func (d *SSDDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// Verify SSDDetector implements Detector at compile time.
var _ Detector = (*SSDDetector)(nil)
