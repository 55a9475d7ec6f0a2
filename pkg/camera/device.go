package camera

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Device reads frames from a physical camera through OpenCV's
// VideoCapture backend.
type Device struct {
	cap *gocv.VideoCapture
}

// NewDevice returns an unopened device source.
func NewDevice() *Device {
	return &Device{}
}

// Open opens the configured device index and applies the capture
// properties. Property sets are best-effort; drivers that ignore them
// deliver frames at their native size.
func (d *Device) Open(cfg Config) error {
	cap, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return fmt.Errorf("%w: device %d: %v", ErrUnavailable, cfg.Device, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	cap.Set(gocv.VideoCaptureBrightness, float64(cfg.Brightness))

	if !cap.IsOpened() {
		cap.Close()
		return fmt.Errorf("%w: device %d", ErrUnavailable, cfg.Device)
	}

	d.cap = cap
	return nil
}

// Read grabs the next frame and converts it to an image.Image.
func (d *Device) Read() (image.Image, error) {
	if d.cap == nil {
		return nil, fmt.Errorf("%w: device not open", ErrReadFailed)
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := d.cap.Read(&mat); !ok || mat.Empty() {
		return nil, ErrReadFailed
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("camera: convert frame: %w", err)
	}
	return img, nil
}

// Close releases the underlying capture handle.
func (d *Device) Close() error {
	if d.cap == nil {
		return nil
	}
	err := d.cap.Close()
	d.cap = nil
	return err
}

var _ Source = (*Device)(nil)
