package wardrobedup

import (
	"context"
	"log/slog"
	"math"
)

// MatchMethod identifies which signal produced a duplicate verdict.
type MatchMethod string

const (
	// MethodHash is an exact perceptual-hash match.
	MethodHash MatchMethod = "hash"
	// MethodFilenameAux is a meaningful-filename match corroborated by byte
	// size or pixel metadata.
	MethodFilenameAux MatchMethod = "filename+auxiliary"
	// MethodFilename is a filename-only match, reported only by the
	// degraded path when the candidate's attributes cannot be computed.
	MethodFilename MatchMethod = "filename"
)

// Verdict is the outcome of one candidate-vs-collection comparison.
type Verdict struct {
	Duplicate bool
	Method    MatchMethod // set only when Duplicate
	MatchedID string      // identifier of the matched existing item
	Degraded  bool        // true when only filename comparison was possible
}

// ResolvedUpdate carries a hash/metadata pair recovered for an existing item
// during comparison. The caller is responsible for merging updates back into
// its own store; the detector never mutates its input collection.
type ResolvedUpdate struct {
	ItemID   string
	Key      string // cache identity, for items without an ID
	Hash     string
	Metadata *ItemMetadata
}

// itemState is the batch-local working copy of an existing item.
type itemState struct {
	item        ExistingItem
	urlName     string // normalized basename of the reference image URL
	displayName string // normalized item display name
	resolved    bool   // backfill already attempted this batch
}

// Batch is an ordered duplicate-checking session against one snapshot of the
// wardrobe collection. Checks run sequentially; a backfill recovered for an
// earlier candidate is reused by later candidates in the same batch, and the
// process-wide Cache carries it across batches.
type Batch struct {
	cfg     *Config
	items   []*itemState
	updates []ResolvedUpdate
}

// NewBatch snapshots items into a checking session. The input slice is not
// retained or mutated.
func (cfg *Config) NewBatch(items []ExistingItem) *Batch {
	cfg.defaults()
	states := make([]*itemState, len(items))
	for i, it := range items {
		states[i] = &itemState{
			item:        it,
			urlName:     NormalizeURLName(it.ImageURL),
			displayName: NormalizeFilename(it.Name),
		}
	}
	return &Batch{cfg: cfg, items: states}
}

// Updates returns the hash/metadata pairs backfilled so far, in resolution
// order.
func (b *Batch) Updates() []ResolvedUpdate { return b.updates }

// CheckDuplicate is the one-shot form of Batch.Check: it builds a
// single-candidate session and returns the verdict plus any backfills.
func (cfg *Config) CheckDuplicate(ctx context.Context, file CandidateFile, items []ExistingItem) (Verdict, []ResolvedUpdate) {
	b := cfg.NewBatch(items)
	v := b.Check(ctx, file)
	return v, b.Updates()
}

// Check decides whether file duplicates any item in the session. A verdict
// is always produced: if the candidate's attributes cannot be computed even
// locally, the comparison degrades to exact matching of meaningful
// normalized filenames.
func (b *Batch) Check(ctx context.Context, file CandidateFile) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			if b.cfg.OnPanic != nil {
				b.cfg.OnPanic("duplicateCheck", r)
			}
			verdict = Verdict{Degraded: true}
		}
	}()

	candName := NormalizeFilename(file.Name)
	candMeaningful := IsMeaningfulName(candName)

	attrs, err := b.cfg.ExtractAttributes(ctx, file)
	if err != nil {
		slog.Warn("wardrobedup: attribute extraction failed, filename-only comparison",
			"name", file.Name, "error", err.Error())
		return b.checkFilenameOnly(candName, candMeaningful)
	}

	for _, st := range b.items {
		if v, ok := b.checkAgainst(ctx, st, candName, candMeaningful, attrs); ok {
			return v
		}
	}
	return Verdict{}
}

// checkAgainst evaluates one existing item. Decision priority: hash match,
// then filename match corroborated by size or metadata.
func (b *Batch) checkAgainst(ctx context.Context, st *itemState, candName string, candMeaningful bool, attrs FileAttributes) (Verdict, bool) {
	nameMatch := b.filenameMatch(st, candName, candMeaningful)

	// A filename match alone is not enough; backfill missing hash/metadata
	// so the auxiliary checks have something to corroborate with.
	if nameMatch && !st.resolved && (st.item.Hash == "" || !st.item.Metadata.Detailed()) {
		st.resolved = true
		res := b.cfg.resolveItemAttributes(ctx, &st.item)
		if res.Hash != "" || res.Meta != nil {
			if st.item.Hash == "" && res.Hash != "" {
				st.item.Hash = res.Hash
			}
			if !st.item.Metadata.Detailed() && res.Meta != nil {
				st.item.Metadata = res.Meta
			}
			b.updates = append(b.updates, ResolvedUpdate{
				ItemID:   st.item.ID,
				Key:      itemCacheKey(&st.item),
				Hash:     st.item.Hash,
				Metadata: st.item.Metadata,
			})
		}
	}

	if hashMatch(attrs.Hash, st.item.Hash) {
		return Verdict{Duplicate: true, Method: MethodHash, MatchedID: st.item.ID}, true
	}
	if nameMatch && (b.sizeMatch(attrs.Size, st.item.Size) || b.metadataMatch(attrs.Meta, st.item.Metadata)) {
		return Verdict{Duplicate: true, Method: MethodFilenameAux, MatchedID: st.item.ID}, true
	}
	return Verdict{}, false
}

// checkFilenameOnly is the degraded path: exact equality of meaningful
// normalized names is sufficient on its own, since no richer signal is
// available.
func (b *Batch) checkFilenameOnly(candName string, candMeaningful bool) Verdict {
	if !candMeaningful {
		return Verdict{Degraded: true}
	}
	for _, st := range b.items {
		if b.filenameMatch(st, candName, true) {
			return Verdict{Duplicate: true, Method: MethodFilename, MatchedID: st.item.ID, Degraded: true}
		}
	}
	return Verdict{Degraded: true}
}

// filenameMatch is true only when both normalized names are individually
// meaningful and exactly equal. Substring or prefix matching is deliberately
// rejected as too permissive. The URL-derived basename is the primary
// source; the item's display name is the secondary one.
func (b *Batch) filenameMatch(st *itemState, candName string, candMeaningful bool) bool {
	if !candMeaningful {
		return false
	}
	if IsMeaningfulName(st.urlName) && st.urlName == candName {
		return true
	}
	if IsMeaningfulName(st.displayName) && st.displayName == candName {
		return true
	}
	return false
}

// hashMatch requires full-string equality of two non-empty hashes. No
// truncated or prefix comparison; partial hashes are a false-positive risk.
func hashMatch(a, b string) bool {
	return a != "" && b != "" && a == b
}

// sizeMatch is true when both sizes are known and differ by at most the
// configured tolerance. A missing size on either side never counts as a
// match.
func (b *Batch) sizeMatch(candSize, itemSize int64) bool {
	if candSize <= 0 || itemSize <= 0 {
		return false
	}
	diff := candSize - itemSize
	if diff < 0 {
		diff = -diff
	}
	return diff <= b.cfg.Thresholds.SizeToleranceBytes
}

// metadataMatch compares width, height, aspect ratio, and declared type, and
// requires at least MetadataQuorum of the four to agree. Fewer agreeing
// sub-comparisons do not count; coincidental same-width photos of different
// garments are common.
func (b *Batch) metadataMatch(cand ItemMetadata, item *ItemMetadata) bool {
	if !cand.Detailed() || !item.Detailed() {
		return false
	}
	t := b.cfg.Thresholds
	agree := 0
	if intWithin(cand.Width, item.Width, t.PixelTolerance) {
		agree++
	}
	if intWithin(cand.Height, item.Height, t.PixelTolerance) {
		agree++
	}
	if math.Abs(cand.AspectRatio-item.AspectRatio) <= t.AspectTolerance {
		agree++
	}
	if cand.Type != "" && item.Type != "" && cand.Type == item.Type {
		agree++
	}
	return agree >= t.MetadataQuorum
}

func intWithin(a, b, tol int) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
