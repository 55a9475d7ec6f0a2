// Package web provides the HTTP surface of the vera services: the
// navigator app (video feed, detection snapshot, websocket push), the
// whisper transcription service, and the YOLO detection service. Each
// server owns one fiber app; route handlers stay thin and delegate to
// the domain packages.
package web

import (
	"bytes"
	"image"
	"io"
	"math"
	"mime/multipart"

	_ "image/jpeg"
	_ "image/png"
)

// readUpload reads a multipart file into memory.
func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// decodeUploadImage reads and decodes an uploaded JPEG or PNG.
func decodeUploadImage(fh *multipart.FileHeader) (image.Image, error) {
	data, err := readUpload(fh)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
