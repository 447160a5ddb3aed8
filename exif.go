package wardrobedup

import (
	"bytes"

	"github.com/bep/imagemeta"
)

// orientationSwapsDimensions reports whether an EXIF orientation value
// transposes the image (values 5-8 involve a 90° rotation).
func orientationSwapsDimensions(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}

// exifOrientation extracts the EXIF Orientation tag from raw image bytes.
// Returns 0 when the tag is absent or the data cannot be parsed.
// Graceful degradation: never returns an error.
func exifOrientation(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	orientation := 0
	err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Tag == "Orientation"
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			orientation = tagValueInt(ti.Value)
			return nil
		},
	})
	if err != nil {
		return 0
	}
	return orientation
}

// tagValueInt coerces a numeric tag value. EXIF shorts may surface as any
// integer width depending on the writer.
func tagValueInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int16:
		return int(val)
	case int32:
		return int(val)
	case int64:
		return int(val)
	case uint8:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	case uint64:
		return int(val)
	case float64:
		return int(val)
	default:
		return 0
	}
}
