package analyzer

import (
	"context"

	"loopmod/internal/pkg/hash"
	"loopmod/internal/pkg/oracle"

	"github.com/go-kratos/kratos/v2/log"
)

// Classifier scores one piece of content. Implemented by oracle.Pool.
type Classifier interface {
	Classify(ctx context.Context, content, contentType string) (*oracle.Result, error)
}

// ResultCache caches oracle verdicts by content hash.
// Implementations may be nil-safe no-ops when caching is disabled.
type ResultCache interface {
	Get(ctx context.Context, contentHash string) (*oracle.Result, bool, error)
	Set(ctx context.Context, contentHash string, res *oracle.Result) error
}

// VisualAnalysis is the per-modality verdict for a content item's visual media.
type VisualAnalysis struct {
	IsSafe            bool     `json:"is_safe"`
	AdultContent      []string `json:"adult_content"`
	ViolentContent    []string `json:"violent_content"`
	SuggestiveContent []string `json:"suggestive_content"`
	Confidence        float64  `json:"confidence"`
	Degraded          bool     `json:"degraded,omitempty"`
}

// AudioAnalysis is the per-modality verdict for audio and its transcript.
type AudioAnalysis struct {
	IsSafe          bool     `json:"is_safe"`
	AbusiveLanguage []string `json:"abusive_language"`
	HateSpeech      []string `json:"hate_speech"`
	Confidence      float64  `json:"confidence"`
	Degraded        bool     `json:"degraded,omitempty"`
}

// MetadataAnalysis is the per-modality verdict for title, description and tags.
type MetadataAnalysis struct {
	IsSafe            bool     `json:"is_safe"`
	InappropriateTags []string `json:"inappropriate_tags"`
	CringeTags        []string `json:"cringe_tags"`
	ClickbaitScore    float64  `json:"clickbait_score"`
	Confidence        float64  `json:"confidence"`
	Degraded          bool     `json:"degraded,omitempty"`
}

// scorer wraps the classifier with a verdict cache and fail-open fallback.
type scorer struct {
	classifier Classifier
	cache      ResultCache
	log        *log.Helper
}

// score classifies content, consulting the cache first. On classifier failure
// the pipeline fails open: the returned verdict is oracle.FallbackResult and
// degraded is true.
func (s *scorer) score(ctx context.Context, content, contentType string) (res *oracle.Result, degraded bool) {
	key := hash.ContentHash(contentType + ":" + content)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warnf("verdict cache lookup failed: %v", err)
		} else if ok {
			return cached, false
		}
	}

	result, err := s.classifier.Classify(ctx, content, contentType)
	if err != nil {
		s.log.Warnf("scoring failed for %s content, using fallback verdict: %v", contentType, err)
		return oracle.FallbackResult(), true
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			s.log.Warnf("verdict cache store failed: %v", err)
		}
	}

	return result, false
}

// appendUnique appends v to list if not already present.
func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
