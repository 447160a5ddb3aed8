package wardrobedup

import (
	"context"
	"log/slog"
)

// ExtractAttributes produces the candidate's comparable signature. The
// primary path stores the file and asks the backend for its hash and pixel
// metadata; if any part of that fails, a local low-fidelity hash is computed
// instead. An error is returned only when the local fallback cannot decode
// the image either.
func (cfg *Config) ExtractAttributes(ctx context.Context, file CandidateFile) (FileAttributes, error) {
	cfg.defaults()

	if attrs, ok := cfg.extractRemote(ctx, file); ok {
		return attrs, nil
	}
	return cfg.extractLocal(file)
}

// extractRemote uploads the candidate and invokes the signature endpoint
// against the stored location. Returns ok=false on any failure.
func (cfg *Config) extractRemote(ctx context.Context, file CandidateFile) (FileAttributes, bool) {
	if cfg.UploadURL == "" || cfg.SignatureURL == "" || cfg.Token == "" {
		return FileAttributes{}, false
	}

	stored, err := cfg.uploadCandidate(ctx, file)
	if err != nil {
		slog.Debug("wardrobedup: candidate upload failed, using local hash", "name", file.Name, "error", err.Error())
		return FileAttributes{}, false
	}

	hash, meta, err := cfg.generateSignature(ctx, stored)
	if err != nil {
		slog.Debug("wardrobedup: remote signature failed, using local hash", "name", file.Name, "error", err.Error())
		return FileAttributes{}, false
	}
	if hash == "" || !meta.Detailed() {
		slog.Debug("wardrobedup: remote signature incomplete, using local hash", "name", file.Name)
		return FileAttributes{}, false
	}

	m := *meta
	if m.Type == "" {
		m.Type = file.Type
	}
	return FileAttributes{Hash: hash, Meta: m, Size: file.Size}, true
}

// extractLocal computes the fallback signature from the raw bytes. The hash
// is always non-empty on success.
func (cfg *Config) extractLocal(file CandidateFile) (FileAttributes, error) {
	hash, width, height, err := pixelHash(file.Data)
	if err != nil {
		return FileAttributes{}, err
	}
	meta := ItemMetadata{Width: width, Height: height, Type: file.Type}
	if height > 0 {
		meta.AspectRatio = float64(width) / float64(height)
	}
	return FileAttributes{Hash: hash, Meta: meta, Size: file.Size}, nil
}
