package wardrobedup

import (
	"context"
	"log/slog"
)

// resolvedAttrs is the cached outcome of one backfill lookup. Negative
// results (both fields zero) are cached too, so a failing reference image is
// only tried once per process.
type resolvedAttrs struct {
	Hash string
	Meta *ItemMetadata
}

const backfillKeyPrefix = "wardrobedup:attrs"

// resolveItemAttributes recovers the hash and pixel metadata for an existing
// item from its reference image, at most once per cache identity. It never
// returns an error: on any failure the negative result is cached and the
// comparison proceeds with whatever fields remain.
func (cfg *Config) resolveItemAttributes(ctx context.Context, item *ExistingItem) resolvedAttrs {
	cfg.defaults()

	identity := itemCacheKey(item)
	key := cfg.Cache.Key(backfillKeyPrefix, identity)

	var cached resolvedAttrs
	if cfg.Cache.Get(ctx, key, &cached) {
		return cached
	}

	attrs := cfg.lookupItemAttributes(ctx, item)
	cfg.Cache.Set(ctx, key, attrs)
	if cfg.OnBackfill != nil {
		cfg.OnBackfill(identity)
	}
	return attrs
}

// lookupItemAttributes performs the remote signature call for an item, with
// the optional local fallback when enabled.
func (cfg *Config) lookupItemAttributes(ctx context.Context, item *ExistingItem) resolvedAttrs {
	if item.ImageURL == "" {
		return resolvedAttrs{}
	}
	if cfg.Token == "" {
		slog.Debug("wardrobedup: backfill skipped, no credential", "item", itemCacheKey(item))
		return resolvedAttrs{}
	}

	hash, meta, err := cfg.generateSignature(ctx, item.ImageURL)
	if err != nil {
		slog.Debug("wardrobedup: backfill failed", "item", itemCacheKey(item), "error", err.Error())
		if cfg.LocalBackfill {
			return cfg.localBackfill(ctx, item)
		}
		return resolvedAttrs{}
	}

	if !meta.Detailed() {
		// Partial metadata is useless for comparison; treat as absent.
		meta = nil
	}
	return resolvedAttrs{Hash: hash, Meta: meta}
}

// localBackfill downloads the reference image and computes the low-fidelity
// hash and dimensions client-side.
func (cfg *Config) localBackfill(ctx context.Context, item *ExistingItem) resolvedAttrs {
	data := cfg.FetchReferenceImage(ctx, item.ImageURL)
	if data == nil {
		return resolvedAttrs{}
	}
	hash, width, height, err := pixelHash(data)
	if err != nil {
		return resolvedAttrs{}
	}
	meta := &ItemMetadata{Width: width, Height: height}
	if height > 0 {
		meta.AspectRatio = float64(width) / float64(height)
	}
	return resolvedAttrs{Hash: hash, Meta: meta}
}
