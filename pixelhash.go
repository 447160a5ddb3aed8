package wardrobedup

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// hashEdge is the downsample square edge for the local fallback hash.
const hashEdge = 32

const hexDigits = "0123456789abcdef"

// pixelHash computes the low-fidelity fallback hash: the image is downsized
// to hashEdge×hashEdge and each pixel's R+G+B sum modulo 16 becomes one hex
// digit, concatenated row by row. Width and height are the natural decoded
// dimensions, corrected for EXIF orientation.
func pixelHash(data []byte) (hash string, width, height int, err error) {
	if len(data) == 0 {
		return "", 0, 0, errors.New("pixelhash: empty image data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("pixelhash: decode: %w", err)
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	if orientationSwapsDimensions(exifOrientation(data)) {
		width, height = height, width
	}

	small := image.NewRGBA(image.Rect(0, 0, hashEdge, hashEdge))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, bounds, draw.Src, nil)

	var sb strings.Builder
	sb.Grow(hashEdge * hashEdge)
	for y := 0; y < hashEdge; y++ {
		for x := 0; x < hashEdge; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			sum := int(r>>8) + int(g>>8) + int(b>>8)
			sb.WriteByte(hexDigits[sum%16])
		}
	}
	return sb.String(), width, height, nil
}
