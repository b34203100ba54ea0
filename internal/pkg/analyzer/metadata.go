package analyzer

import (
	"context"
	"strings"
	"unicode"

	"github.com/go-kratos/kratos/v2/log"
)

// clickbaitPhrases are title patterns that contribute to the clickbait score.
var clickbaitPhrases = []string{
	"you won't believe",
	"you wont believe",
	"gone wrong",
	"shocking",
	"must see",
	"number one reason",
	"what happened next",
	"doctors hate",
	"(not clickbait)",
}

// MetadataAnalyzer scores a content item's title, description and tags.
type MetadataAnalyzer struct {
	scorer
	terms *TermMatcher
}

// NewMetadataAnalyzer creates a new MetadataAnalyzer.
func NewMetadataAnalyzer(classifier Classifier, cache ResultCache, terms *TermMatcher, logger log.Logger) *MetadataAnalyzer {
	return &MetadataAnalyzer{
		scorer: scorer{classifier: classifier, cache: cache, log: log.NewHelper(logger)},
		terms:  terms,
	}
}

// Analyze scores the metadata modality.
func (a *MetadataAnalyzer) Analyze(ctx context.Context, title, description string, tags []string) *MetadataAnalysis {
	result := &MetadataAnalysis{
		IsSafe:            true,
		InappropriateTags: make([]string, 0),
		CringeTags:        make([]string, 0),
		ClickbaitScore:    ClickbaitScore(title),
		Confidence:        1.0,
	}

	for _, tag := range tags {
		matches, err := a.terms.Match(ctx, tag)
		if err != nil {
			a.log.Warnf("term matching failed on tag %q: %v", tag, err)
			continue
		}
		for _, m := range matches {
			switch m.Kind {
			case TermKindAbusive, TermKindHate:
				result.InappropriateTags = appendUnique(result.InappropriateTags, tag)
			case TermKindCringe:
				result.CringeTags = appendUnique(result.CringeTags, tag)
			}
		}
	}
	if len(result.InappropriateTags) > 0 {
		result.IsSafe = false
	}

	content := strings.TrimSpace(title + " " + description)
	if content == "" {
		return result
	}

	res, degraded := a.score(ctx, content, "metadata")
	if degraded {
		result.Degraded = true
	}
	result.Confidence = res.Confidence
	if !res.IsSafe {
		result.IsSafe = false
	}

	return result
}

// ClickbaitScore estimates how clickbait-like a title is, in [0,1].
// Signals: known clickbait phrases, shouting (caps ratio), exclamation runs.
func ClickbaitScore(title string) float64 {
	if title == "" {
		return 0
	}

	score := 0.0
	lower := strings.ToLower(title)

	for _, phrase := range clickbaitPhrases {
		if strings.Contains(lower, phrase) {
			score += 0.2
		}
	}

	if capsRatio(title) > 0.6 && len(title) > 8 {
		score += 0.2
	}

	if strings.Count(title, "!") >= 3 {
		score += 0.1
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// capsRatio returns the share of letters that are upper case.
func capsRatio(s string) float64 {
	letters, upper := 0, 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}
