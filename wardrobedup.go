// Package wardrobedup decides whether a newly selected garment photo is
// probably already present in a wardrobe collection. The decision combines
// exact perceptual-hash comparison, normalized-filename comparison, byte-size
// tolerance, and pixel-metadata agreement; missing attributes on existing
// items are backfilled lazily through the configured backend and cached for
// the process lifetime.
package wardrobedup

import (
	"context"
	"net/http"
)

// Default comparison tolerances. These are empirically chosen; override them
// via Config.Thresholds when the defaults misbehave for a collection.
const (
	DefaultSizeToleranceBytes = 2048
	DefaultPixelTolerance     = 5
	DefaultAspectTolerance    = 0.01
	DefaultMetadataQuorum     = 3
)

// Thresholds are the tunable comparison tolerances.
type Thresholds struct {
	SizeToleranceBytes int64   // max byte-size difference for a size match
	PixelTolerance     int     // max width/height difference in pixels
	AspectTolerance    float64 // max aspect-ratio difference
	MetadataQuorum     int     // sub-comparisons (of 4) required for a metadata match
}

// Cache abstracts key-value caching (Redis, sync.Map, etc.)
type Cache interface {
	Key(prefix, value string) string
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
}

// CandidateFile is a user-selected image about to be added to the wardrobe.
type CandidateFile struct {
	Name string // declared filename
	Size int64  // declared byte size
	Type string // declared MIME type, e.g. "image/jpeg"
	Data []byte // raw file bytes

	// Optional form fields forwarded by the upload call.
	Category    string
	DisplayName string
}

// ItemMetadata is the pixel-level signature of an image.
type ItemMetadata struct {
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	AspectRatio float64 `json:"aspectRatio,omitempty"`
	Type        string  `json:"type,omitempty"`
}

// Detailed reports whether width, height, and aspect ratio are all present.
// Partial metadata (e.g. only type) is treated as absent for comparison.
func (m *ItemMetadata) Detailed() bool {
	return m != nil && m.Width > 0 && m.Height > 0 && m.AspectRatio > 0
}

// FileAttributes is the derived, comparable signature of a candidate image.
// AspectRatio inside Meta is always Width/Height.
type FileAttributes struct {
	Hash string // perceptual hash, opaque token
	Meta ItemMetadata
	Size int64
}

// ExistingItem is a previously stored wardrobe entry used as a comparison
// target. Any optional field may be absent; missing hash/metadata is
// recovered lazily during comparison and reported via Batch.Updates.
type ExistingItem struct {
	ID       string        `json:"id,omitempty"`
	Name     string        `json:"name,omitempty"`
	ImageURL string        `json:"imageUrl,omitempty"`
	Hash     string        `json:"hash,omitempty"`
	Metadata *ItemMetadata `json:"metadata,omitempty"`
	Size     int64         `json:"size,omitempty"` // 0 = unknown
}

// Config holds all dependencies injected by the consumer.
type Config struct {
	Cache         Cache        // attribute backfill cache (nil = fresh MapCache)
	HTTPClient    *http.Client // default http client (nil = http.DefaultClient)
	StealthClient *http.Client // optional: tried first for reference-image fetches

	UploadURL    string // stores a candidate file, returns its location
	SignatureURL string // computes hash + pixel metadata for a stored image
	ItemsURL     string // lists the wardrobe collection

	Token     string // bearer credential for the remote calls
	UserAgent string // default: "Mozilla/5.0 (compatible; go-wardrobedup/1.0)"

	// LocalBackfill enables a client-side fallback for existing-item
	// backfill: when the signature endpoint fails, the reference image is
	// downloaded and hashed locally. Off by default; a locally computed
	// hash only ever equals another locally computed hash.
	LocalBackfill bool

	Thresholds Thresholds // zero fields are filled with the defaults above

	// Optional callbacks for metrics/logging.
	OnBackfill func(itemKey string) // fired once per backfill attempt (cache misses only)
	OnPanic    func(tag string, r any)
}

// defaults fills zero-value fields with sensible defaults.
func (cfg *Config) defaults() {
	if cfg.Cache == nil {
		cfg.Cache = NewMapCache()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; go-wardrobedup/1.0)"
	}
	if cfg.Thresholds.SizeToleranceBytes <= 0 {
		cfg.Thresholds.SizeToleranceBytes = DefaultSizeToleranceBytes
	}
	if cfg.Thresholds.PixelTolerance <= 0 {
		cfg.Thresholds.PixelTolerance = DefaultPixelTolerance
	}
	if cfg.Thresholds.AspectTolerance <= 0 {
		cfg.Thresholds.AspectTolerance = DefaultAspectTolerance
	}
	if cfg.Thresholds.MetadataQuorum <= 0 {
		cfg.Thresholds.MetadataQuorum = DefaultMetadataQuorum
	}
}
