package analyzer

import (
	"context"
	"testing"

	"loopmod/internal/pkg/filter"
)

func newMetadataAnalyzerWithTerms(t *testing.T, classifier Classifier, patterns []filter.TermPattern) *MetadataAnalyzer {
	t.Helper()
	tm := newTestTermMatcher()
	if err := tm.Rebuild(context.Background(), patterns); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	return NewMetadataAnalyzer(classifier, nil, tm, testLogger())
}

func TestMetadataAnalyzer_Clean(t *testing.T) {
	a := newMetadataAnalyzerWithTerms(t, &fakeClassifier{}, nil)

	result := a.Analyze(context.Background(), "My vacation", "a trip to the coast", []string{"travel", "beach"})

	if !result.IsSafe {
		t.Error("Expected safe result")
	}
	if result.ClickbaitScore != 0 {
		t.Errorf("Expected zero clickbait score, got %f", result.ClickbaitScore)
	}
}

func TestMetadataAnalyzer_InappropriateTags(t *testing.T) {
	a := newMetadataAnalyzerWithTerms(t, &fakeClassifier{}, []filter.TermPattern{
		{Term: "slur", Kind: TermKindHate, Weight: 1.0},
		{Term: "skibidi", Kind: TermKindCringe, Weight: 0.5},
	})

	result := a.Analyze(context.Background(), "title", "desc", []string{"slur", "skibidi", "travel"})

	if result.IsSafe {
		t.Error("Expected inappropriate tags to flip safety")
	}
	if len(result.InappropriateTags) != 1 || result.InappropriateTags[0] != "slur" {
		t.Errorf("Expected inappropriate tags [slur], got %v", result.InappropriateTags)
	}
	if len(result.CringeTags) != 1 || result.CringeTags[0] != "skibidi" {
		t.Errorf("Expected cringe tags [skibidi], got %v", result.CringeTags)
	}
}

func TestMetadataAnalyzer_CringeTagsStaySafe(t *testing.T) {
	a := newMetadataAnalyzerWithTerms(t, &fakeClassifier{}, []filter.TermPattern{
		{Term: "skibidi", Kind: TermKindCringe, Weight: 0.5},
	})

	result := a.Analyze(context.Background(), "title", "desc", []string{"skibidi"})

	if !result.IsSafe {
		t.Error("Expected cringe tags alone not to flip safety")
	}
}

func TestMetadataAnalyzer_EmptyMetadata(t *testing.T) {
	classifier := &fakeClassifier{}
	a := newMetadataAnalyzerWithTerms(t, classifier, nil)

	result := a.Analyze(context.Background(), "", "", nil)

	if !result.IsSafe {
		t.Error("Expected safe result for empty metadata")
	}
	if classifier.calls != 0 {
		t.Errorf("Expected no scoring calls for empty metadata, got %d", classifier.calls)
	}
}

func TestClickbaitScore(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected float64
	}{
		{
			name:     "empty title",
			title:    "",
			expected: 0,
		},
		{
			name:     "plain title",
			title:    "Cooking pasta at home",
			expected: 0,
		},
		{
			name:     "clickbait phrase",
			title:    "you won't believe this recipe",
			expected: 0.2,
		},
		{
			name:     "all caps",
			title:    "AMAZING PASTA RECIPE",
			expected: 0.2,
		},
		{
			name:     "exclamation run",
			title:    "Great recipe!!! so good",
			expected: 0.1,
		},
		{
			name:     "phrase plus caps plus exclamations",
			title:    "YOU WON'T BELIEVE WHAT HAPPENED NEXT!!!",
			expected: 0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClickbaitScore(tt.title)
			if got < tt.expected-1e-9 || got > tt.expected+1e-9 {
				t.Errorf("Expected score %.2f, got %.2f", tt.expected, got)
			}
		})
	}
}
