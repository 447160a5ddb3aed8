package wardrobedup

import (
	"net/url"
	"regexp"
	"strings"
)

// uuidRe matches UUID-shaped substrings (8-4-4-4-12 hex groups).
var uuidRe = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// separatorRe matches separator characters stripped from filenames. Dots are
// included so that normalization is idempotent once the extension is gone.
var separatorRe = regexp.MustCompile(`[._\-\s]+`)

// timestampRe matches runs of 13+ consecutive digits (epoch-millis shaped).
// Applied after separator removal so split digit runs are still caught.
var timestampRe = regexp.MustCompile(`[0-9]{13,}`)

// minMeaningfulLen is the minimum normalized length for a name to be allowed
// to participate in duplicate matching.
const minMeaningfulLen = 4

// genericNames are normalized tokens too generic to identify a garment.
// Camera roll and messenger exports produce these constantly.
var genericNames = map[string]bool{
	"img":        true,
	"image":      true,
	"picture":    true,
	"photo":      true,
	"screenshot": true,
	"file":       true,
	"download":   true,
	"upload":     true,
	"processed":  true,
	"tmp":        true,
	"temp":       true,
	"untitled":   true,
	"scan":       true,
	"camera":     true,
	"copy":       true,
}

// NormalizeFilename reduces a raw filename to a comparable token: the
// extension is dropped, UUID-shaped substrings and 13+-digit runs are
// removed, separators are stripped, and the remainder is lower-cased.
// The function is idempotent.
func NormalizeFilename(name string) string {
	if name == "" {
		return ""
	}
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		name = name[:idx]
	}
	name = uuidRe.ReplaceAllString(name, "")
	name = separatorRe.ReplaceAllString(name, "")
	name = timestampRe.ReplaceAllString(name, "")
	return strings.TrimSpace(strings.ToLower(name))
}

// IsMeaningfulName reports whether an already-normalized name carries enough
// identity to participate in duplicate matching. Short or generic names
// never match, even when equal on both sides.
func IsMeaningfulName(normalized string) bool {
	if len(normalized) < minMeaningfulLen {
		return false
	}
	return !genericNames[normalized]
}

// NormalizeURLName derives a comparable token from the last path segment of
// an image URL: query string and fragment stripped, percent-decoded, then
// normalized like a filename. Returns "" for an empty URL.
func NormalizeURLName(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	s := rawURL
	if idx := strings.IndexByte(s, '?'); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		s = s[idx+1:]
	}
	if dec, err := url.PathUnescape(s); err == nil {
		s = dec
	}
	return NormalizeFilename(s)
}
