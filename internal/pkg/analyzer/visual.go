package analyzer

import (
	"context"
	"encoding/binary"

	"loopmod/internal/pkg/bloom"
	"loopmod/internal/pkg/hash"
	"loopmod/internal/pkg/oracle"
	"loopmod/internal/pkg/redis"

	"github.com/go-kratos/kratos/v2/log"
)

// KnownVisual is a previously confirmed unsafe visual, stored by perceptual hash.
type KnownVisual struct {
	PHash      int64
	Category   string
	Confidence float64
	SourceURL  string
}

// KnownVisualStore checks and records confirmed unsafe visuals.
type KnownVisualStore interface {
	// FindSimilar returns the closest known visual within maxDistance bits, or nil.
	FindSimilar(ctx context.Context, phash int64, maxDistance int32) (*KnownVisual, error)
	// Save records a confirmed unsafe visual.
	Save(ctx context.Context, v *KnownVisual) error
}

// VisualAnalyzerConfig holds configuration for visual analysis.
type VisualAnalyzerConfig struct {
	UnsafeThreshold    float64 // confidence needed to persist a known-bad hash
	MaxHammingDistance int32
	BloomBits          uint
	BloomHashFuncs     uint
	BloomKey           string
}

// DefaultVisualAnalyzerConfig returns default configuration.
func DefaultVisualAnalyzerConfig() VisualAnalyzerConfig {
	return VisualAnalyzerConfig{
		UnsafeThreshold:    0.8,
		MaxHammingDistance: 5,
		BloomBits:          1 << 20,
		BloomHashFuncs:     7,
		BloomKey:           "loopmod:bloom:visual",
	}
}

// VisualAnalyzer scores visual media. Known unsafe visuals are short-circuited
// via perceptual hash before the scoring service is consulted:
// pHash -> bloom filter -> store lookup -> scoring service.
type VisualAnalyzer struct {
	scorer
	config      VisualAnalyzerConfig
	hasher      *hash.MediaHasher
	bloomFilter *bloom.Filter
	store       KnownVisualStore
}

// NewVisualAnalyzer creates a new VisualAnalyzer.
func NewVisualAnalyzer(
	config VisualAnalyzerConfig,
	classifier Classifier,
	cache ResultCache,
	redisCache redis.Cache,
	store KnownVisualStore,
	logger log.Logger,
) *VisualAnalyzer {
	helper := log.NewHelper(logger)
	return &VisualAnalyzer{
		scorer:      scorer{classifier: classifier, cache: cache, log: helper},
		config:      config,
		hasher:      hash.NewMediaHasher(),
		bloomFilter: bloom.NewBloomFilter(redisCache, config.BloomKey, config.BloomBits, config.BloomHashFuncs),
		store:       store,
	}
}

// Analyze scores the visual media URLs of one content item.
func (a *VisualAnalyzer) Analyze(ctx context.Context, urls []string) *VisualAnalysis {
	result := &VisualAnalysis{
		IsSafe:            true,
		AdultContent:      make([]string, 0),
		ViolentContent:    make([]string, 0),
		SuggestiveContent: make([]string, 0),
		Confidence:        1.0,
	}

	for _, url := range urls {
		a.analyzeOne(ctx, url, result)
	}

	return result
}

func (a *VisualAnalyzer) analyzeOne(ctx context.Context, url string, result *VisualAnalysis) {
	var phash uint64
	mediaHash, err := a.hasher.ComputeFromURL(ctx, url)
	if err != nil {
		a.log.Debugf("failed to compute perceptual hash for %s: %v", url, err)
	} else {
		phash = mediaHash.Hash
		if known := a.lookupKnown(ctx, phash); known != nil {
			a.log.Infof("known unsafe visual: phash=%016x category=%s", phash, known.Category)
			a.flag(result, known.Category, url)
			result.IsSafe = false
			if known.Confidence < result.Confidence {
				result.Confidence = known.Confidence
			}
			return
		}
	}

	res, degraded := a.score(ctx, url, "visual")
	if degraded {
		result.Degraded = true
	}
	if res.Confidence < result.Confidence {
		result.Confidence = res.Confidence
	}
	if res.IsSafe {
		return
	}

	result.IsSafe = false
	a.flag(result, res.Category, url)

	if phash != 0 && res.Confidence >= a.config.UnsafeThreshold {
		a.saveKnown(ctx, phash, res, url)
	}
}

// lookupKnown checks the bloom filter and, on a hit, the store.
func (a *VisualAnalyzer) lookupKnown(ctx context.Context, phash uint64) *KnownVisual {
	maybeExists, err := a.bloomFilter.ExistsWithCtx(ctx, phashToBytes(phash))
	if err != nil {
		a.log.Warnf("visual bloom filter check failed: %v", err)
		return nil
	}
	if !maybeExists {
		return nil
	}

	known, err := a.store.FindSimilar(ctx, int64(phash), a.config.MaxHammingDistance)
	if err != nil {
		a.log.Warnf("known visual lookup failed: %v", err)
		return nil
	}
	return known
}

func (a *VisualAnalyzer) saveKnown(ctx context.Context, phash uint64, res *oracle.Result, url string) {
	if err := a.store.Save(ctx, &KnownVisual{
		PHash:      int64(phash),
		Category:   res.Category,
		Confidence: res.Confidence,
		SourceURL:  url,
	}); err != nil {
		a.log.Warnf("failed to save known visual: %v", err)
		return
	}
	if err := a.bloomFilter.AddWithCtx(ctx, phashToBytes(phash)); err != nil {
		a.log.Warnf("failed to add phash to bloom filter: %v", err)
	}
	a.log.Infof("saved unsafe visual: phash=%016x category=%s score=%.2f", phash, res.Category, res.Confidence)
}

// flag records the URL under the flag list matching the category.
func (a *VisualAnalyzer) flag(result *VisualAnalysis, category, url string) {
	switch category {
	case oracle.CategoryAdult:
		result.AdultContent = appendUnique(result.AdultContent, url)
	case oracle.CategoryViolence:
		result.ViolentContent = appendUnique(result.ViolentContent, url)
	default:
		result.SuggestiveContent = appendUnique(result.SuggestiveContent, url)
	}
}

// RegisterKnownHash adds a pHash directly to the bloom filter (for rebuilding).
func (a *VisualAnalyzer) RegisterKnownHash(ctx context.Context, phash uint64) error {
	return a.bloomFilter.AddWithCtx(ctx, phashToBytes(phash))
}

func phashToBytes(phash uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, phash)
	return buf
}
