package filter

import (
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase",
			input:    "HELLO WORLD",
			expected: "hello world",
		},
		{
			name:     "leetspeak numbers",
			input:    "h3ll0 w0rld",
			expected: "hello world",
		},
		{
			name:     "leetspeak symbols",
			input:    "he110 wor1d",
			expected: "heiio worid",
		},
		{
			name:     "at sign to a",
			input:    "b@dword",
			expected: "badword",
		},
		{
			name:     "dollar sign to s",
			input:    "a$$hole",
			expected: "asshole",
		},
		{
			name:     "mixed case and leetspeak",
			input:    "B4DW0RD",
			expected: "badword",
		},
		{
			name:     "unicode diacritics",
			input:    "café résumé",
			expected: "cafe resume",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAhoCorasick_Search(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermPattern{
		{Term: "badword", Kind: "abusive", Weight: 0.8},
		{Term: "slur", Kind: "hate", Weight: 1.0},
		{Term: "word", Kind: "abusive", Weight: 0.3},
	})

	matches := ac.Search("this text contains a badword somewhere")

	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches (badword and its suffix word), got %d", len(matches))
	}

	found := make(map[string]TermMatch)
	for _, m := range matches {
		found[m.Term] = m
	}

	if m, ok := found["badword"]; !ok {
		t.Error("Expected match for badword")
	} else {
		if m.Kind != "abusive" {
			t.Errorf("Expected kind abusive, got %s", m.Kind)
		}
		if m.Weight != 0.8 {
			t.Errorf("Expected weight 0.8, got %f", m.Weight)
		}
	}

	if _, ok := found["word"]; !ok {
		t.Error("Expected suffix match for word")
	}
}

func TestAhoCorasick_SearchLeetspeak(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermPattern{
		{Term: "badword", Kind: "abusive", Weight: 1.0},
	})

	matches := ac.Search("check out this B4DW0RD here")
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].Term != "badword" {
		t.Errorf("Expected badword, got %s", matches[0].Term)
	}
}

func TestAhoCorasick_NoMatch(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermPattern{
		{Term: "badword", Kind: "abusive", Weight: 1.0},
	})

	if matches := ac.Search("a perfectly clean sentence"); len(matches) != 0 {
		t.Errorf("Expected no matches, got %d", len(matches))
	}
	if ac.HasMatch("a perfectly clean sentence") {
		t.Error("Expected HasMatch to be false")
	}
}

func TestAhoCorasick_HasMatch(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermPattern{
		{Term: "slur", Kind: "hate", Weight: 1.0},
	})

	if !ac.HasMatch("an embedded slur here") {
		t.Error("Expected HasMatch to be true")
	}
}

func TestAhoCorasick_Rebuild(t *testing.T) {
	ac := NewAhoCorasick()
	ac.Build([]TermPattern{
		{Term: "old", Kind: "abusive", Weight: 1.0},
	})
	ac.Build([]TermPattern{
		{Term: "new", Kind: "abusive", Weight: 1.0},
	})

	if ac.HasMatch("the old term") {
		t.Error("Expected old pattern to be gone after rebuild")
	}
	if !ac.HasMatch("the new term") {
		t.Error("Expected new pattern to match after rebuild")
	}
}
