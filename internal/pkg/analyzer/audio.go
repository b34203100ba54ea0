package analyzer

import (
	"context"

	"loopmod/internal/pkg/oracle"

	"github.com/go-kratos/kratos/v2/log"
)

// AudioAnalyzer scores a content item's audio track via its transcript,
// combining local flagged-term matching with the scoring service.
type AudioAnalyzer struct {
	scorer
	terms *TermMatcher
}

// NewAudioAnalyzer creates a new AudioAnalyzer.
func NewAudioAnalyzer(classifier Classifier, cache ResultCache, terms *TermMatcher, logger log.Logger) *AudioAnalyzer {
	return &AudioAnalyzer{
		scorer: scorer{classifier: classifier, cache: cache, log: log.NewHelper(logger)},
		terms:  terms,
	}
}

// Analyze scores the audio modality. Abusive terms are collected but do not by
// themselves flip IsSafe; they feed the rejection and age-gate rules
// downstream. Hate terms and an unsafe verdict from the scoring service do.
func (a *AudioAnalyzer) Analyze(ctx context.Context, audioURL, transcript string) *AudioAnalysis {
	result := &AudioAnalysis{
		IsSafe:          true,
		AbusiveLanguage: make([]string, 0),
		HateSpeech:      make([]string, 0),
		Confidence:      1.0,
	}

	if transcript != "" {
		matches, err := a.terms.Match(ctx, transcript)
		if err != nil {
			a.log.Warnf("term matching failed on transcript: %v", err)
		}
		for _, m := range matches {
			switch m.Kind {
			case TermKindAbusive:
				result.AbusiveLanguage = appendUnique(result.AbusiveLanguage, m.Term)
			case TermKindHate:
				result.HateSpeech = appendUnique(result.HateSpeech, m.Term)
			}
		}
		if len(result.HateSpeech) > 0 {
			result.IsSafe = false
		}
	}

	content := transcript
	if content == "" {
		content = audioURL
	}
	if content == "" {
		return result
	}

	res, degraded := a.score(ctx, content, "audio")
	if degraded {
		result.Degraded = true
	}
	result.Confidence = res.Confidence

	if !res.IsSafe {
		result.IsSafe = false
		switch res.Category {
		case oracle.CategoryHate:
			for _, label := range res.Labels {
				result.HateSpeech = appendUnique(result.HateSpeech, label)
			}
		case oracle.CategoryAbusive:
			for _, label := range res.Labels {
				result.AbusiveLanguage = appendUnique(result.AbusiveLanguage, label)
			}
		}
	}

	return result
}
