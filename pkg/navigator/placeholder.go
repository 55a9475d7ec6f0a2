package navigator

import (
	"image"
	"image/color"
	"image/draw"
)

// Status messages shown on the degraded stream branches.
const (
	msgInUse        = "Camera already in use"
	msgUnavailable  = "Camera unavailable"
	msgReadFailed   = "Unable to read from camera"
	msgEncodeFailed = "Failed to encode frame"
)

// Placeholders are the JPEG status frames substituted for camera
// output during degraded states, rendered once at construction.
type Placeholders struct {
	InUse        []byte
	Unavailable  []byte
	ReadFailed   []byte
	EncodeFailed []byte
}

func newPlaceholders(width, height int) (*Placeholders, error) {
	p := &Placeholders{}
	for _, ph := range []struct {
		dst *[]byte
		msg string
	}{
		{&p.InUse, msgInUse},
		{&p.Unavailable, msgUnavailable},
		{&p.ReadFailed, msgReadFailed},
		{&p.EncodeFailed, msgEncodeFailed},
	} {
		jpg, err := renderMessageJPEG(width, height, ph.msg)
		if err != nil {
			return nil, err
		}
		*ph.dst = jpg
	}
	return p, nil
}

// renderMessageJPEG draws msg in white on a black frame at the stream
// resolution and encodes it.
func renderMessageJPEG(width, height int, msg string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	drawText(img, msg, 20, height/2, color.White)
	return encodeJPEG(img)
}
