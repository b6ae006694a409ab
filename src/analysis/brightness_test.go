package analysis

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

func encodePNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestBrightness(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  float64
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 128},
		// HSV value is the max channel, so pure red is fully bright.
		{"pure red", color.RGBA{255, 0, 0, 255}, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Brightness(encodePNG(t, tt.color))
			if err != nil {
				t.Fatalf("Brightness: %v", err)
			}
			if math.Abs(got-tt.want) > 1 {
				t.Errorf("Brightness = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestBrightnessRange(t *testing.T) {
	colors := []color.Color{
		color.RGBA{13, 37, 199, 255},
		color.RGBA{200, 100, 50, 255},
		color.RGBA{1, 2, 3, 255},
	}
	for _, c := range colors {
		got, err := Brightness(encodePNG(t, c))
		if err != nil {
			t.Fatalf("Brightness: %v", err)
		}
		if got < 0 || got > 255 {
			t.Errorf("Brightness = %.2f outside [0,255]", got)
		}
	}
}

func TestBrightnessMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not an image")},
		{"truncated png", encodePNG(t, color.RGBA{255, 255, 255, 255})[:10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Brightness(tt.data); err == nil {
				t.Error("expected error for malformed input")
			}
		})
	}
}
