package wardrobedup

import (
	"image"
	"image/color"
	"testing"
)

// horizontalGradient builds a grayscale ramp; reversed flips its direction so
// two images get maximally different dHash values.
func horizontalGradient(width, height int, reversed bool) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			if reversed {
				v = 255 - v
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestVisualFilter_SeenTwice(t *testing.T) {
	t.Parallel()

	f := NewVisualFilter(0)
	img := horizontalGradient(64, 64, false)

	if f.Seen(img) {
		t.Error("first sighting must not be a duplicate")
	}
	if !f.Seen(img) {
		t.Error("second sighting of the same image must be a duplicate")
	}
}

func TestVisualFilter_DistinctImages(t *testing.T) {
	t.Parallel()

	f := NewVisualFilter(0)
	if f.Seen(horizontalGradient(64, 64, false)) {
		t.Error("first image must be accepted")
	}
	if f.Seen(horizontalGradient(64, 64, true)) {
		t.Error("reversed gradient must not match the original")
	}
}

func TestNewVisualFilter_DefaultThreshold(t *testing.T) {
	t.Parallel()

	if f := NewVisualFilter(0); f.threshold != DefaultVisualThreshold {
		t.Errorf("threshold = %d, want %d", f.threshold, DefaultVisualThreshold)
	}
	if f := NewVisualFilter(3); f.threshold != 3 {
		t.Errorf("threshold = %d, want 3", f.threshold)
	}
}
