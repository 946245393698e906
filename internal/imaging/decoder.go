// Package imaging provides the default image decoding capability: it reads
// an image header (format and pixel size) without decoding pixel data.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// Header summarizes a decoded image.
type Header struct {
	Format string
	Width  int
	Height int
	Scale  int
}

// PointSize returns the image size in points, i.e. pixels divided by scale.
func (h Header) PointSize() (int, int) {
	if h.Scale <= 1 {
		return h.Width, h.Height
	}
	return h.Width / h.Scale, h.Height / h.Scale
}

func (h Header) String() string {
	w, ht := h.PointSize()
	return fmt.Sprintf("%s %dx%d px (%dx%d pt @%dx)", h.Format, h.Width, h.Height, w, ht, h.Scale)
}

// Decoder reads headers of the formats registered with the image package.
type Decoder struct{}

// DecodeImage implements resolver.ImageDecoder and returns a Header.
func (Decoder) DecodeImage(r io.Reader, scale int) (any, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode header: %w", err)
	}
	if scale < 1 {
		scale = 1
	}
	return Header{Format: format, Width: cfg.Width, Height: cfg.Height, Scale: scale}, nil
}
