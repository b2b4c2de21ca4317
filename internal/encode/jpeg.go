// Package encode turns raw captured samples into transport-ready payloads:
// JPEG for video frames, a canonical WAV container for audio segments.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// MIME types for the encoded payloads, matching the backend's multipart parts.
const (
	JPEGContentType = "image/jpeg"
	WAVContentType  = "audio/wav"
)

// JPEG scales img to an edge×edge square with a Catmull-Rom filter and
// compresses it at the given quality (1-100). Output byte length varies with
// content; only the pixel dimensions are fixed.
func JPEG(img image.Image, edge, quality int) ([]byte, error) {
	if edge <= 0 {
		return nil, fmt.Errorf("invalid target edge %d", edge)
	}

	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
