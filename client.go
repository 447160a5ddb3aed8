package wardrobedup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout  = 10 * time.Second
	maxErrorBody    = 4 * 1024
	defaultMaxBytes = 200 * 1024 // max reference-image download size
)

// apiError builds an error from a non-success response, extracting the
// human-readable message from an {"error": "..."} body when present.
func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("%s: %s", op, msg)
}

// authorize sets the common request headers.
func (cfg *Config) authorize(req *http.Request) {
	req.Header.Set("User-Agent", cfg.UserAgent)
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}
}

// uploadCandidate stores the candidate file through the upload endpoint and
// returns its stored-location URL. The form carries the file plus the
// category and display-name fields.
func (cfg *Config) uploadCandidate(ctx context.Context, file CandidateFile) (string, error) {
	cfg.defaults()
	if cfg.UploadURL == "" {
		return "", errors.New("upload: no endpoint configured")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", err
	}
	if file.Category != "" {
		_ = w.WriteField("category", file.Category)
	}
	name := file.DisplayName
	if name == "" {
		name = file.Name
	}
	_ = w.WriteField("name", name)
	if err := w.Close(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.UploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	cfg.authorize(req)

	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apiError("upload", resp)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if payload.URL == "" {
		return "", errors.New("upload: response missing stored url")
	}
	return payload.URL, nil
}

// signatureResponse is the hash/metadata-generation endpoint's reply.
type signatureResponse struct {
	Hash     string `json:"hash"`
	Metadata struct {
		Width       int     `json:"width"`
		Height      int     `json:"height"`
		AspectRatio float64 `json:"aspectRatio"`
		Format      string  `json:"format"`
		Type        string  `json:"type"`
	} `json:"metadata"`
}

// generateSignature asks the backend for the perceptual hash and pixel
// metadata of a stored image.
func (cfg *Config) generateSignature(ctx context.Context, imageURL string) (string, *ItemMetadata, error) {
	cfg.defaults()
	if cfg.SignatureURL == "" {
		return "", nil, errors.New("signature: no endpoint configured")
	}

	body, err := json.Marshal(map[string]string{"imageUrl": imageURL})
	if err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.SignatureURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	cfg.authorize(req)

	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil, apiError("signature", resp)
	}

	var out signatureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("signature: %w", err)
	}

	meta := &ItemMetadata{
		Width:       out.Metadata.Width,
		Height:      out.Metadata.Height,
		AspectRatio: out.Metadata.AspectRatio,
		Type:        out.Metadata.Type,
	}
	if meta.Type == "" {
		meta.Type = out.Metadata.Format
	}
	// Aspect ratio is always width/height; recompute when the server omits it.
	if meta.AspectRatio == 0 && meta.Height > 0 {
		meta.AspectRatio = float64(meta.Width) / float64(meta.Height)
	}
	return out.Hash, meta, nil
}

// ListItems fetches the wardrobe collection. A listing failure is reported
// as an empty collection so upload progress is never blocked on a transient
// backend error; the cost is possible duplicate admission.
func (cfg *Config) ListItems(ctx context.Context) []ExistingItem {
	cfg.defaults()
	if cfg.ItemsURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ItemsURL, nil)
	if err != nil {
		return nil
	}
	cfg.authorize(req)

	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		slog.Warn("wardrobedup: items listing failed", "error", err.Error())
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("wardrobedup: items listing failed", "status", resp.Status)
		return nil
	}

	var payload struct {
		Items []ExistingItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("wardrobedup: items listing undecodable", "error", err.Error())
		return nil
	}
	return payload.Items
}

// FetchReferenceImage downloads an item's reference image. Tries
// cfg.StealthClient first (if set), falls back to cfg.HTTPClient. Returns
// nil (not an error) on recoverable failures for graceful degradation.
func (cfg *Config) FetchReferenceImage(ctx context.Context, imageURL string) []byte {
	cfg.defaults()

	if cfg.StealthClient != nil {
		if data := fetchImageData(ctx, cfg.StealthClient, imageURL, cfg.UserAgent); data != nil {
			return data
		}
	}
	return fetchImageData(ctx, cfg.HTTPClient, imageURL, cfg.UserAgent)
}

func fetchImageData(ctx context.Context, client *http.Client, imageURL, ua string) []byte {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	ct := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if !strings.HasPrefix(ct, "image/") {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, defaultMaxBytes))
	if err != nil {
		return nil
	}
	return data
}
