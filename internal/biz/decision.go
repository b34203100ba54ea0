package biz

import (
	"loopmod/internal/pkg/analyzer"
)

// Decision is the final moderation outcome for a content item.
type Decision string

const (
	DecisionApproved      Decision = "approved"
	DecisionPending       Decision = "pending"
	DecisionRejected      Decision = "rejected"
	DecisionAgeRestricted Decision = "age_restricted"
)

func (d Decision) String() string {
	return string(d)
}

// Valid reports whether d is a known decision value.
func (d Decision) Valid() bool {
	switch d {
	case DecisionApproved, DecisionPending, DecisionRejected, DecisionAgeRestricted:
		return true
	}
	return false
}

// Modality weights of the overall safety score. They sum to 1.0.
const (
	visualWeight   = 0.4
	audioWeight    = 0.4
	metadataWeight = 0.2
)

const (
	approveThreshold = 0.8
	rejectThreshold  = 0.3
	// maxAbusiveTerms is the number of distinct abusive terms tolerated
	// before the item is rejected outright.
	maxAbusiveTerms = 3
)

// AgeRestriction gates a content item to a minimum viewer age.
type AgeRestriction struct {
	IsRestricted bool   `json:"is_restricted"`
	MinimumAge   int    `json:"minimum_age"`
	Reason       string `json:"reason,omitempty"`
}

// OverallSafetyScore combines the per-modality verdicts into one score.
// A modality's confidence only counts while it is safe; unsafe visual or
// audio zeroes that modality out, and unsafe metadata is scored as 0.5 minus
// the clickbait penalty. The result is intentionally not clamped, so an
// extreme clickbait penalty can pull it below zero.
func OverallSafetyScore(visual *analyzer.VisualAnalysis, audio *analyzer.AudioAnalysis, metadata *analyzer.MetadataAnalysis) float64 {
	visualScore := 0.0
	if visual.IsSafe {
		visualScore = visual.Confidence
	}

	audioScore := 0.0
	if audio.IsSafe {
		audioScore = audio.Confidence
	}

	metadataScore := 0.5 - metadata.ClickbaitScore
	if metadata.IsSafe {
		metadataScore = 1.0
	}

	return visualWeight*visualScore + audioWeight*audioScore + metadataWeight*metadataScore
}

// Decide computes the overall safety score, the age gate and the final
// decision for one content item. Pure: recomputing over the same analyses
// always yields the same outcome.
//
// Decision rules, evaluated in order:
//  1. score > 0.8 and not age-restricted -> approved
//  2. score < 0.3, or any violent visual flag, or more than three abusive
//     terms -> rejected
//  3. age-restricted -> age_restricted
//  4. otherwise -> pending
func Decide(visual *analyzer.VisualAnalysis, audio *analyzer.AudioAnalysis, metadata *analyzer.MetadataAnalysis) (float64, Decision, AgeRestriction) {
	age := ClassifyAge(visual, audio, metadata)
	score := OverallSafetyScore(visual, audio, metadata)

	var decision Decision
	switch {
	case score > approveThreshold && !age.IsRestricted:
		decision = DecisionApproved
	case score < rejectThreshold || len(visual.ViolentContent) > 0 || len(audio.AbusiveLanguage) > maxAbusiveTerms:
		decision = DecisionRejected
	case age.IsRestricted:
		decision = DecisionAgeRestricted
	default:
		decision = DecisionPending
	}

	return score, decision, age
}

// ClassifyAge maps flagged content to a minimum-age gate. Rules form a
// priority chain; the first matching rule wins and later rules are not
// evaluated.
func ClassifyAge(visual *analyzer.VisualAnalysis, audio *analyzer.AudioAnalysis, metadata *analyzer.MetadataAnalysis) AgeRestriction {
	switch {
	case len(visual.AdultContent) > 0 || len(visual.SuggestiveContent) > 0:
		return AgeRestriction{IsRestricted: true, MinimumAge: 18, Reason: "adult or suggestive visual content"}
	case len(visual.ViolentContent) > 0:
		return AgeRestriction{IsRestricted: true, MinimumAge: 16, Reason: "violent content"}
	case len(audio.AbusiveLanguage) > 1:
		return AgeRestriction{IsRestricted: true, MinimumAge: 13, Reason: "abusive language"}
	case len(metadata.InappropriateTags) > 0:
		return AgeRestriction{IsRestricted: true, MinimumAge: 18, Reason: "inappropriate tags"}
	}
	return AgeRestriction{}
}
