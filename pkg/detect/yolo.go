package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YOLOConfig holds YOLO detector configuration.
type YOLOConfig struct {
	ModelPath   string
	InputWidth  int
	InputHeight int
}

// DefaultYOLOConfig returns production defaults for YOLOv8n.
func DefaultYOLOConfig() YOLOConfig {
	return YOLOConfig{
		ModelPath:   "models/yolov8n.onnx",
		InputWidth:  640,
		InputHeight: 640,
	}
}

// YOLODetector runs YOLOv8 object detection. Class IDs in its results
// are zero-indexed COCO IDs, the YOLO convention.
type YOLODetector struct {
	net       gocv.Net
	config    YOLOConfig
	mu        sync.Mutex
	inputSize image.Point
}

// NewYOLO creates a YOLOv8 detector from an ONNX model.
func NewYOLO(cfg YOLOConfig) (*YOLODetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load YOLO model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Detect finds objects in the frame.
func (d *YOLODetector) Detect(img image.Image, confThreshold, nmsThreshold float32) ([]RawDetection, error) {
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

	blob := gocv.BlobFromImage(mat, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	return d.parseOutput(output, imgW, imgH, confThreshold, nmsThreshold), nil
}

// parseOutput decodes the YOLOv8 tensor. Shape is [1, 84, 8400]:
// 84 = 4 bbox coords + 80 class scores, 8400 candidate boxes.
func (d *YOLODetector) parseOutput(output gocv.Mat, imgW, imgH, confThreshold, nmsThreshold float32) []RawDetection {
	var boxes []image.Rectangle
	var confidences []float32
	var classIDs []int

	rows := output.Cols()
	cols := output.Rows()
	if sizes := output.Size(); len(sizes) == 3 {
		cols = sizes[1]
		rows = sizes[2]
	}
	if rows <= 0 || cols <= 4 {
		return nil
	}

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil
	}

	for i := 0; i < rows; i++ {
		// Best class score for this candidate, scores start at index 4.
		maxScore := float32(0)
		maxClassID := 0
		for c := 4; c < cols; c++ {
			score := data[c*rows+i]
			if score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}

		if maxScore < confThreshold {
			continue
		}

		// Center-format box scaled from model input to frame size.
		cx := data[0*rows+i]
		cy := data[1*rows+i]
		w := data[2*rows+i]
		h := data[3*rows+i]

		x1 := int((cx - w/2) * imgW / float32(d.config.InputWidth))
		y1 := int((cy - h/2) * imgH / float32(d.config.InputHeight))
		x2 := int((cx + w/2) * imgW / float32(d.config.InputWidth))
		y2 := int((cy + h/2) * imgH / float32(d.config.InputHeight))

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		confidences = append(confidences, maxScore)
		classIDs = append(classIDs, maxClassID)
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
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

// Verify YOLODetector implements Detector at compile time.
var _ Detector = (*YOLODetector)(nil)
