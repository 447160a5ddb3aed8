package wardrobedup

import (
	"image"
	"sync"

	"github.com/corona10/goimagehash"
)

// DefaultVisualThreshold is the maximum Hamming distance between two dHash
// values below which images are considered visually identical.
const DefaultVisualThreshold = 10

// VisualFilter detects visually near-duplicate images by perceptual dHash
// distance. It is an opt-in helper for local scans and never participates in
// the Batch decision rules, which require exact hash equality. Safe for
// concurrent use.
type VisualFilter struct {
	mu        sync.Mutex
	threshold int
	hashes    []*goimagehash.ImageHash
}

// NewVisualFilter creates a filter; threshold <= 0 selects
// DefaultVisualThreshold.
func NewVisualFilter(threshold int) *VisualFilter {
	if threshold <= 0 {
		threshold = DefaultVisualThreshold
	}
	return &VisualFilter{threshold: threshold}
}

// Seen reports whether img is perceptually identical to a previously seen
// image. If hashing fails for any reason, the image is accepted (graceful
// degradation). Unique images are remembered for future comparisons.
func (f *VisualFilter) Seen(img image.Image) bool {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, h := range f.hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < f.threshold {
			return true
		}
	}

	f.hashes = append(f.hashes, hash)
	return false
}
