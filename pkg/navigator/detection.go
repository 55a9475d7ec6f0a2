package navigator

import "math"

// Detection is one labeled object from a processed frame, in the wire
// shape served by /latest_detections. Values are rounded at
// construction and never mutated afterwards.
type Detection struct {
	Label      string   `json:"label"`
	DistanceCM *float64 `json:"distance_cm"`
	Confidence float64  `json:"confidence"`
	IsClose    bool     `json:"is_close"`
}

// NewDetection builds a Detection, rounding distance to 2 decimal
// places and confidence to 4. A missing distance estimate becomes a
// nil DistanceCM, which marshals to JSON null.
func NewDetection(label string, distanceCM float64, haveDistance bool, confidence float64, isClose bool) Detection {
	d := Detection{
		Label:      label,
		Confidence: roundTo(confidence, 4),
		IsClose:    isClose,
	}
	if haveDistance {
		rounded := roundTo(distanceCM, 2)
		d.DistanceCM = &rounded
	}
	return d
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
