// Package analysis implements the storage-triggered image analysis function.
package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Brightness decodes the image bytes and returns the mean of the HSV value
// channel (the per-pixel maximum of R, G and B) scaled to the 0..255 range:
// 0 is fully dark, 255 fully bright.
func Brightness(data []byte) (float64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return 0, ErrEmptyImage
	}

	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			v := r
			if g > v {
				v = g
			}
			if b > v {
				v = b
			}
			// RGBA returns 16-bit channels; shift down to 0..255.
			sum += uint64(v >> 8)
		}
	}

	pixels := uint64(bounds.Dx()) * uint64(bounds.Dy())
	return float64(sum) / float64(pixels), nil
}
