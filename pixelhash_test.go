package wardrobedup

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// encodePNG renders a solid-color PNG for test inputs.
func encodePNG(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPixelHash_UniformImage(t *testing.T) {
	t.Parallel()

	// R+G+B = 60, 60 mod 16 = 12 = 'c' for every sampled pixel.
	data := encodePNG(t, 64, 64, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	hash, width, height, err := pixelHash(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hash) != hashEdge*hashEdge {
		t.Errorf("hash length = %d, want %d", len(hash), hashEdge*hashEdge)
	}
	if hash != strings.Repeat("c", hashEdge*hashEdge) {
		t.Errorf("uniform image must hash to a uniform digit string, got %q...", hash[:16])
	}
	if width != 64 || height != 64 {
		t.Errorf("dimensions = %dx%d, want 64x64", width, height)
	}
}

func TestPixelHash_Deterministic(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 48, 32, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	h1, _, _, err := pixelHash(data)
	if err != nil {
		t.Fatal(err)
	}
	h2, _, _, err := pixelHash(data)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("pixelHash is not deterministic for identical input")
	}
}

func TestPixelHash_NaturalDimensions(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 120, 80, color.White)
	_, width, height, err := pixelHash(data)
	if err != nil {
		t.Fatal(err)
	}
	if width != 120 || height != 80 {
		t.Errorf("dimensions = %dx%d, want 120x80", width, height)
	}
}

func TestPixelHash_Errors(t *testing.T) {
	t.Parallel()

	if _, _, _, err := pixelHash(nil); err == nil {
		t.Error("expected error for empty data")
	}
	if _, _, _, err := pixelHash([]byte("definitely not an image")); err == nil {
		t.Error("expected error for undecodable data")
	}
}

func TestExifOrientation_NoExif(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 8, 8, color.Black)
	if got := exifOrientation(data); got != 0 {
		t.Errorf("exifOrientation on EXIF-less PNG = %d, want 0", got)
	}
	if got := exifOrientation(nil); got != 0 {
		t.Errorf("exifOrientation(nil) = %d, want 0", got)
	}
}

func TestOrientationSwapsDimensions(t *testing.T) {
	t.Parallel()

	for o, want := range map[int]bool{0: false, 1: false, 3: false, 4: false, 5: true, 6: true, 7: true, 8: true, 9: false} {
		if got := orientationSwapsDimensions(o); got != want {
			t.Errorf("orientationSwapsDimensions(%d) = %v, want %v", o, got, want)
		}
	}
}
