package analyzer

import (
	"context"
	"strings"

	"loopmod/internal/pkg/bloom"
	"loopmod/internal/pkg/filter"
	"loopmod/internal/pkg/hash"
	"loopmod/internal/pkg/redis"
)

// Term kinds recognized by the matcher.
const (
	TermKindAbusive = "abusive"
	TermKindHate    = "hate"
	TermKindCringe  = "cringe"
)

// TermMatcherConfig holds configuration for the TermMatcher.
type TermMatcherConfig struct {
	BloomBits          uint
	BloomHashFunctions uint
	BloomKey           string
}

// DefaultTermMatcherConfig returns default configuration.
func DefaultTermMatcherConfig() TermMatcherConfig {
	return TermMatcherConfig{
		BloomBits:          1024 * 1024 * 8, // 8 million bits = 1MB
		BloomHashFunctions: 5,
		BloomKey:           "loopmod:bloom:terms",
	}
}

// TermMatcher finds flagged terms in content. A redis-backed bloom filter over
// normalized tokens prefilters the Aho-Corasick scan.
type TermMatcher struct {
	bloomFilter *bloom.Filter
	ahoCorasick *filter.AhoCorasick
}

// NewTermMatcher creates a new TermMatcher.
func NewTermMatcher(redisCache redis.Cache, config TermMatcherConfig) *TermMatcher {
	return &TermMatcher{
		bloomFilter: bloom.NewBloomFilter(redisCache, config.BloomKey, config.BloomBits, config.BloomHashFunctions),
		ahoCorasick: filter.NewAhoCorasick(),
	}
}

// Rebuild rebuilds the automaton and bloom filter from the term list.
func (tm *TermMatcher) Rebuild(ctx context.Context, patterns []filter.TermPattern) error {
	tm.ahoCorasick.Build(patterns)

	for _, p := range patterns {
		if err := tm.addToBloom(ctx, p.Term); err != nil {
			return err
		}
	}
	return nil
}

// Add registers a single term in the bloom filter. The automaton picks the
// term up on the next Rebuild.
func (tm *TermMatcher) Add(ctx context.Context, term string) error {
	return tm.addToBloom(ctx, term)
}

func (tm *TermMatcher) addToBloom(ctx context.Context, term string) error {
	normalized := filter.NormalizeText(term)
	if err := tm.bloomFilter.AddWithCtx(ctx, hash.FastHash(normalized)); err != nil {
		return err
	}

	// Register constituent tokens so multi-word phrases still prefilter.
	tokens := tokenize(normalized)
	if len(tokens) > 1 {
		for _, token := range tokens {
			if err := tm.bloomFilter.AddWithCtx(ctx, hash.FastHash(token)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Match returns all flagged-term matches in text. When no token of the text
// hits the bloom filter the scan is skipped entirely.
func (tm *TermMatcher) Match(ctx context.Context, text string) ([]filter.TermMatch, error) {
	if text == "" {
		return nil, nil
	}

	normalized := filter.NormalizeText(text)

	hasCandidate := false
	for _, token := range tokenize(normalized) {
		exists, err := tm.bloomFilter.ExistsWithCtx(ctx, hash.FastHash(token))
		if err != nil {
			// Degrade to a full scan when the prefilter is unavailable.
			hasCandidate = true
			break
		}
		if exists {
			hasCandidate = true
			break
		}
	}
	if !hasCandidate {
		return nil, nil
	}

	return tm.ahoCorasick.Search(normalized), nil
}

// tokenize splits text into words.
func tokenize(text string) []string {
	words := make([]string, 0)
	current := strings.Builder{}

	for _, r := range text {
		if isWordChar(r) {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '_' ||
		r >= 0x80 // Unicode characters
}
