package navigator

import (
	"bufio"
	"bytes"
	"image"
	"image/jpeg"
	"time"
)

// StreamContentType is the response content type for the video feed.
const StreamContentType = "multipart/x-mixed-replace; boundary=frame"

// jpegQuality matches the OpenCV imencode default.
const jpegQuality = 95

var (
	partHeader  = []byte("--frame\r\nContent-Type: image/jpeg\r\n\r\n")
	partTrailer = []byte("\r\n")
)

// writePart writes one multipart chunk and flushes it to the
// consumer. A write or flush error means the consumer disconnected.
func writePart(w *bufio.Writer, jpg []byte) error {
	if _, err := w.Write(partHeader); err != nil {
		return err
	}
	if _, err := w.Write(jpg); err != nil {
		return err
	}
	if _, err := w.Write(partTrailer); err != nil {
		return err
	}
	return w.Flush()
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Stream serves one video feed consumer until it disconnects or the
// device fails. Every exit path releases the device and the lease.
//
// Branches, in order: losing the lease race serves the busy
// placeholder forever; an open failure serves the unavailable
// placeholder forever; a read or encode failure emits one placeholder
// part and ends the stream.
func (n *Navigator) Stream(w *bufio.Writer) {
	if n.metrics != nil {
		n.metrics.StreamClients.Add(1)
		defer func() { n.metrics.StreamClients.Add(^uint64(0)) }()
	}

	if !n.lease.TryAcquire() {
		if n.metrics != nil {
			n.metrics.StreamsRejected.Add(1)
		}
		n.logger.Warn("camera already held, serving busy placeholder")
		n.repeatPlaceholder(w, n.placeholders.InUse)
		return
	}
	defer n.lease.Release()

	src := n.newSource()
	defer src.Close()

	if err := src.Open(n.cfg.Camera); err != nil {
		n.logger.Error("camera open failed", "error", err)
		n.repeatPlaceholder(w, n.placeholders.Unavailable)
		return
	}

	n.logger.Info("video stream started",
		"device", n.cfg.Camera.Device,
		"width", n.cfg.Camera.Width,
		"height", n.cfg.Camera.Height,
	)

	for {
		img, err := src.Read()
		if err != nil {
			n.logger.Error("camera read failed", "error", err)
			if n.metrics != nil {
				n.metrics.ReadErrors.Add(1)
			}
			_ = writePart(w, n.placeholders.ReadFailed)
			return
		}

		frame, err := n.analyze(img)
		if err != nil {
			n.logger.Error("detection failed", "error", err)
			return
		}

		jpg, err := encodeJPEG(frame)
		if err != nil {
			n.logger.Error("frame encode failed", "error", err)
			if n.metrics != nil {
				n.metrics.EncodeErrors.Add(1)
			}
			_ = writePart(w, n.placeholders.EncodeFailed)
			return
		}

		if err := writePart(w, jpg); err != nil {
			n.logger.Debug("stream consumer disconnected", "error", err)
			return
		}
	}
}

// repeatPlaceholder writes part once per second until the consumer
// disconnects. The degraded branches never recover on their own.
func (n *Navigator) repeatPlaceholder(w *bufio.Writer, part []byte) {
	for {
		if err := writePart(w, part); err != nil {
			return
		}
		n.sleep(time.Second)
	}
}
