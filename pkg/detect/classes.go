package detect

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// COCOClasses contains the 80 COCO class names in coco.names order.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink", "refrigerator",
	"book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// ClassName returns the zero-indexed COCO class name, YOLO convention.
func ClassName(id int) (string, bool) {
	if id < 0 || id >= len(COCOClasses) {
		return "", false
	}
	return COCOClasses[id], true
}

// LabelForClass maps a one-indexed model class ID to a display label.
// ID 0 is the reserved background slot and IDs past the class list are
// unknown; both are rejected.
func LabelForClass(id int) (string, bool) {
	if id-1 < 0 || id-1 >= len(COCOClasses) {
		return "", false
	}
	return capitalize(COCOClasses[id-1]), true
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
