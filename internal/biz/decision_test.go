package biz

import (
	"math"
	"testing"

	"loopmod/internal/pkg/analyzer"
)

func safeVisual(confidence float64) *analyzer.VisualAnalysis {
	return &analyzer.VisualAnalysis{
		IsSafe:            true,
		AdultContent:      []string{},
		ViolentContent:    []string{},
		SuggestiveContent: []string{},
		Confidence:        confidence,
	}
}

func safeAudio(confidence float64) *analyzer.AudioAnalysis {
	return &analyzer.AudioAnalysis{
		IsSafe:          true,
		AbusiveLanguage: []string{},
		HateSpeech:      []string{},
		Confidence:      confidence,
	}
}

func safeMetadata() *analyzer.MetadataAnalysis {
	return &analyzer.MetadataAnalysis{
		IsSafe:            true,
		InappropriateTags: []string{},
		CringeTags:        []string{},
		Confidence:        1.0,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDecision_Valid(t *testing.T) {
	for _, d := range []Decision{DecisionApproved, DecisionPending, DecisionRejected, DecisionAgeRestricted} {
		if !d.Valid() {
			t.Errorf("Expected %s to be valid", d)
		}
	}
	if Decision("banana").Valid() {
		t.Error("Expected unknown decision to be invalid")
	}
	if Decision("").Valid() {
		t.Error("Expected empty decision to be invalid")
	}
}

func TestOverallSafetyScore_AllSafe(t *testing.T) {
	score := OverallSafetyScore(safeVisual(1.0), safeAudio(1.0), safeMetadata())
	if !almostEqual(score, 1.0) {
		t.Errorf("Expected score 1.0, got %f", score)
	}
}

func TestOverallSafetyScore_UnsafeModalitiesZeroOut(t *testing.T) {
	visual := safeVisual(0.9)
	visual.IsSafe = false
	audio := safeAudio(0.9)
	audio.IsSafe = false

	// Only metadata contributes.
	score := OverallSafetyScore(visual, audio, safeMetadata())
	if !almostEqual(score, 0.2) {
		t.Errorf("Expected score 0.2, got %f", score)
	}
}

func TestOverallSafetyScore_UnsafeMetadataClickbaitPenalty(t *testing.T) {
	metadata := safeMetadata()
	metadata.IsSafe = false
	metadata.ClickbaitScore = 0.4

	// 0.4*1.0 + 0.4*1.0 + 0.2*(0.5-0.4) = 0.82
	score := OverallSafetyScore(safeVisual(1.0), safeAudio(1.0), metadata)
	if !almostEqual(score, 0.82) {
		t.Errorf("Expected score 0.82, got %f", score)
	}
}

func TestOverallSafetyScore_NotClamped(t *testing.T) {
	visual := safeVisual(0)
	visual.IsSafe = false
	audio := safeAudio(0)
	audio.IsSafe = false
	metadata := safeMetadata()
	metadata.IsSafe = false
	metadata.ClickbaitScore = 1.0

	// 0 + 0 + 0.2*(0.5-1.0) = -0.1
	score := OverallSafetyScore(visual, audio, metadata)
	if !almostEqual(score, -0.1) {
		t.Errorf("Expected score -0.1, got %f", score)
	}
}

func TestDecide_Approved(t *testing.T) {
	// 0.4*0.9 + 0.4*0.85 + 0.2*1.0 = 0.90
	score, decision, age := Decide(safeVisual(0.9), safeAudio(0.85), safeMetadata())

	if !almostEqual(score, 0.90) {
		t.Errorf("Expected score 0.90, got %f", score)
	}
	if decision != DecisionApproved {
		t.Errorf("Expected approved, got %s", decision)
	}
	if age.IsRestricted {
		t.Error("Expected no age restriction")
	}
}

func TestDecide_PendingMidScore(t *testing.T) {
	audio := safeAudio(0.9)
	audio.IsSafe = false
	audio.HateSpeech = []string{"slur"}

	// 0.4*0.9 + 0 + 0.2*1.0 = 0.56
	score, decision, age := Decide(safeVisual(0.9), audio, safeMetadata())

	if !almostEqual(score, 0.56) {
		t.Errorf("Expected score 0.56, got %f", score)
	}
	if decision != DecisionPending {
		t.Errorf("Expected pending, got %s", decision)
	}
	if age.IsRestricted {
		t.Error("Expected no age restriction from hate speech alone")
	}
}

func TestDecide_RejectedLowScore(t *testing.T) {
	visual := safeVisual(0)
	visual.IsSafe = false
	audio := safeAudio(0)
	audio.IsSafe = false
	metadata := safeMetadata()
	metadata.IsSafe = false

	_, decision, _ := Decide(visual, audio, metadata)

	if decision != DecisionRejected {
		t.Errorf("Expected rejected, got %s", decision)
	}
}

func TestDecide_RejectedViolentContent(t *testing.T) {
	visual := safeVisual(1.0)
	visual.IsSafe = false
	visual.ViolentContent = []string{"http://cdn.example/gore.jpg"}

	// Score 0.6 would otherwise be pending; violent content forces rejection.
	_, decision, age := Decide(visual, safeAudio(1.0), safeMetadata())

	if decision != DecisionRejected {
		t.Errorf("Expected rejected, got %s", decision)
	}
	if !age.IsRestricted || age.MinimumAge != 16 {
		t.Errorf("Expected age gate 16, got %+v", age)
	}
}

func TestDecide_RejectedTooManyAbusiveTerms(t *testing.T) {
	audio := safeAudio(1.0)
	audio.AbusiveLanguage = []string{"a", "b", "c", "d"}

	_, decision, _ := Decide(safeVisual(1.0), audio, safeMetadata())

	if decision != DecisionRejected {
		t.Errorf("Expected rejected with 4 abusive terms, got %s", decision)
	}
}

func TestDecide_AgeRestricted(t *testing.T) {
	visual := safeVisual(1.0)
	visual.IsSafe = false
	visual.SuggestiveContent = []string{"http://cdn.example/thumb.jpg"}

	// 0 + 0.4 + 0.2 = 0.6; age gate keeps it out of approved.
	score, decision, age := Decide(visual, safeAudio(1.0), safeMetadata())

	if !almostEqual(score, 0.6) {
		t.Errorf("Expected score 0.6, got %f", score)
	}
	if decision != DecisionAgeRestricted {
		t.Errorf("Expected age_restricted, got %s", decision)
	}
	if age.MinimumAge != 18 {
		t.Errorf("Expected minimum age 18, got %d", age.MinimumAge)
	}
}

func TestDecide_HighScoreButAgeRestricted(t *testing.T) {
	// Safe visual but suggestive flag would not happen together; use
	// inappropriate tags instead to keep all modalities scoring high.
	metadata := safeMetadata()
	metadata.InappropriateTags = []string{"nsfw"}

	// 0.4 + 0.4 + 0.2 = 1.0, but the age gate blocks approval.
	_, decision, age := Decide(safeVisual(1.0), safeAudio(1.0), metadata)

	if decision != DecisionAgeRestricted {
		t.Errorf("Expected age_restricted, got %s", decision)
	}
	if age.MinimumAge != 18 {
		t.Errorf("Expected minimum age 18, got %d", age.MinimumAge)
	}
}

func TestDecide_Deterministic(t *testing.T) {
	visual := safeVisual(0.85)
	audio := safeAudio(0.7)
	metadata := safeMetadata()

	s1, d1, a1 := Decide(visual, audio, metadata)
	for i := 0; i < 10; i++ {
		s2, d2, a2 := Decide(visual, audio, metadata)
		if s1 != s2 || d1 != d2 || a1 != a2 {
			t.Fatal("Expected identical outcomes for identical analyses")
		}
	}
}

func TestClassifyAge_PriorityChain(t *testing.T) {
	// Adult visual wins over violent visual and abusive audio.
	visual := safeVisual(1.0)
	visual.AdultContent = []string{"a"}
	visual.ViolentContent = []string{"b"}
	audio := safeAudio(1.0)
	audio.AbusiveLanguage = []string{"x", "y"}

	age := ClassifyAge(visual, audio, safeMetadata())

	if age.MinimumAge != 18 {
		t.Errorf("Expected adult rule to win with age 18, got %d", age.MinimumAge)
	}
	if age.Reason != "adult or suggestive visual content" {
		t.Errorf("Unexpected reason %q", age.Reason)
	}
}

func TestClassifyAge_AbusiveAudio(t *testing.T) {
	audio := safeAudio(1.0)
	audio.AbusiveLanguage = []string{"x", "y"}

	age := ClassifyAge(safeVisual(1.0), audio, safeMetadata())

	if age.MinimumAge != 13 {
		t.Errorf("Expected age 13 for abusive audio, got %d", age.MinimumAge)
	}
}

func TestClassifyAge_SingleAbusiveTermUngated(t *testing.T) {
	audio := safeAudio(1.0)
	audio.AbusiveLanguage = []string{"x"}

	age := ClassifyAge(safeVisual(1.0), audio, safeMetadata())

	if age.IsRestricted {
		t.Error("Expected one abusive term not to trigger the age gate")
	}
}

func TestClassifyAge_NoFlags(t *testing.T) {
	age := ClassifyAge(safeVisual(1.0), safeAudio(1.0), safeMetadata())

	if age.IsRestricted {
		t.Error("Expected no restriction for clean content")
	}
	if age.MinimumAge != 0 {
		t.Errorf("Expected minimum age 0, got %d", age.MinimumAge)
	}
}
