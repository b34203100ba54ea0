package hash

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/corona10/goimagehash"
)

// MediaHash is a 64-bit perceptual hash of a visual media item.
type MediaHash struct {
	Hash   uint64
	Width  int
	Height int
}

// MediaHasher computes perceptual hashes of visual media fetched over HTTP.
type MediaHasher struct {
	httpClient *http.Client
}

// NewMediaHasher creates a new MediaHasher.
func NewMediaHasher() *MediaHasher {
	return &MediaHasher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Compute computes the DCT-based perceptual hash of an image.
func (mh *MediaHasher) Compute(img image.Image) (*MediaHash, error) {
	h, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to compute perceptual hash: %w", err)
	}
	return &MediaHash{
		Hash:   h.GetHash(),
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// ComputeFromBytes computes a perceptual hash from raw image bytes.
func (mh *MediaHasher) ComputeFromBytes(data []byte) (*MediaHash, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return mh.Compute(img)
}

// ComputeFromReader computes a perceptual hash from an io.Reader.
func (mh *MediaHasher) ComputeFromReader(r io.Reader) (*MediaHash, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return mh.Compute(img)
}

// ComputeFromURL fetches a media URL and computes its perceptual hash.
func (mh *MediaHasher) ComputeFromURL(ctx context.Context, url string) (*MediaHash, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := mh.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return mh.ComputeFromReader(resp.Body)
}

// HammingDistance calculates the Hamming distance between two hashes.
// Returns the number of differing bits (0 = identical images).
func HammingDistance(hash1, hash2 uint64) int {
	xor := hash1 ^ hash2
	count := 0
	for xor != 0 {
		count++
		xor &= xor - 1
	}
	return count
}

// IsSimilar checks if two hashes are within the given bit distance.
// Distances up to 5 usually mean the same image with minor edits.
func IsSimilar(h1, h2 uint64, threshold int) bool {
	return HammingDistance(h1, h2) <= threshold
}

// String returns a hex string representation of the hash.
func (h *MediaHash) String() string {
	return fmt.Sprintf("%016x", h.Hash)
}
