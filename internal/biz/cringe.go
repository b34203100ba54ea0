package biz

import (
	"strings"

	"loopmod/internal/pkg/analyzer"
)

// CringeResult is a non-safety quality signal used only for a UI badge.
// It never influences the moderation decision.
type CringeResult struct {
	IsCringe      bool     `json:"is_cringe"`
	CringeScore   float64  `json:"cringe_score"`
	CringeFactors []string `json:"cringe_factors"`
}

const cringeThreshold = 0.4

// Per-factor score increments.
const (
	cringeForcedHumor     = 0.15
	cringeAwkwardPhrasing = 0.1
	cringeAllCapsTitle    = 0.2
	cringeExcessiveEmoji  = 0.1
	cringeTaggedMetadata  = 0.2
	cringeClickbaitTitle  = 0.05
)

var forcedHumorMarkers = []string{
	"epic fail",
	"lol so random",
	"hilarious prank",
	"trolled",
	"get rekt",
}

var awkwardPhrasingMarkers = []string{
	"hey guys it's me again",
	"hey guys its me again",
	"don't forget to smash",
	"dont forget to smash",
	"like and subscribe",
	"no cap fr fr",
}

// ScoreCringe computes the cringe score for one content item. Fixed
// increments per detected pattern, summed and capped at 1.0.
func ScoreCringe(transcript, title string, metadata *analyzer.MetadataAnalysis) CringeResult {
	result := CringeResult{
		CringeFactors: make([]string, 0),
	}

	lowerTranscript := strings.ToLower(transcript)
	lowerTitle := strings.ToLower(title)

	if containsAny(lowerTranscript, forcedHumorMarkers) || containsAny(lowerTitle, forcedHumorMarkers) {
		result.CringeScore += cringeForcedHumor
		result.CringeFactors = append(result.CringeFactors, "forced_humor")
	}

	if containsAny(lowerTranscript, awkwardPhrasingMarkers) {
		result.CringeScore += cringeAwkwardPhrasing
		result.CringeFactors = append(result.CringeFactors, "awkward_phrasing")
	}

	if isAllCaps(title) {
		result.CringeScore += cringeAllCapsTitle
		result.CringeFactors = append(result.CringeFactors, "all_caps_title")
	}

	if emojiCount(title)+emojiCount(transcript) > 5 {
		result.CringeScore += cringeExcessiveEmoji
		result.CringeFactors = append(result.CringeFactors, "excessive_emoji")
	}

	if metadata != nil && len(metadata.CringeTags) > 0 {
		result.CringeScore += cringeTaggedMetadata
		result.CringeFactors = append(result.CringeFactors, "cringe_tags")
	}

	if metadata != nil && metadata.ClickbaitScore >= cringeThreshold {
		result.CringeScore += cringeClickbaitTitle
		result.CringeFactors = append(result.CringeFactors, "clickbait_title")
	}

	if result.CringeScore > 1.0 {
		result.CringeScore = 1.0
	}
	result.IsCringe = result.CringeScore > cringeThreshold

	return result
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// isAllCaps reports whether a title is shouting: mostly letters, all upper.
func isAllCaps(title string) bool {
	letters, upper := 0, 0
	for _, r := range title {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			letters++
			upper++
		}
	}
	return letters >= 5 && upper == letters
}

func emojiCount(s string) int {
	count := 0
	for _, r := range s {
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) {
			count++
		}
	}
	return count
}
