package analyzer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"loopmod/internal/pkg/oracle"
)

func newVisualAnalyzer(classifier Classifier, store KnownVisualStore) *VisualAnalyzer {
	return NewVisualAnalyzer(DefaultVisualAnalyzerConfig(), classifier, nil, passCache{}, store, testLogger())
}

func servePNG(t *testing.T) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			gray := uint8((x + y) * 2)
			img.Set(x, y, color.RGBA{gray, gray, gray, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	data := buf.Bytes()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
}

func TestVisualAnalyzer_NoURLs(t *testing.T) {
	a := newVisualAnalyzer(&fakeClassifier{}, &fakeStore{})

	result := a.Analyze(context.Background(), nil)

	if !result.IsSafe {
		t.Error("Expected safe result for no media")
	}
	if result.Confidence != 1.0 {
		t.Errorf("Expected confidence 1.0, got %f", result.Confidence)
	}
}

func TestVisualAnalyzer_UnsafeVerdict(t *testing.T) {
	classifier := &fakeClassifier{result: &oracle.Result{
		IsSafe:     false,
		Category:   oracle.CategoryAdult,
		Confidence: 0.91,
	}}
	a := newVisualAnalyzer(classifier, &fakeStore{})

	url := "http://127.0.0.1:1/img.png"
	result := a.Analyze(context.Background(), []string{url})

	if result.IsSafe {
		t.Error("Expected unsafe result")
	}
	if len(result.AdultContent) != 1 || result.AdultContent[0] != url {
		t.Errorf("Expected adult content [%s], got %v", url, result.AdultContent)
	}
	if result.Confidence != 0.91 {
		t.Errorf("Expected confidence 0.91, got %f", result.Confidence)
	}
}

func TestVisualAnalyzer_ViolenceFlag(t *testing.T) {
	classifier := &fakeClassifier{result: &oracle.Result{
		IsSafe:     false,
		Category:   oracle.CategoryViolence,
		Confidence: 0.88,
	}}
	a := newVisualAnalyzer(classifier, &fakeStore{})

	url := "http://127.0.0.1:1/clip.png"
	result := a.Analyze(context.Background(), []string{url})

	if len(result.ViolentContent) != 1 {
		t.Errorf("Expected violent content flagged, got %v", result.ViolentContent)
	}
}

func TestVisualAnalyzer_FailsOpenOnError(t *testing.T) {
	a := newVisualAnalyzer(&fakeClassifier{failing: true}, &fakeStore{})

	result := a.Analyze(context.Background(), []string{"http://127.0.0.1:1/img.png"})

	if !result.IsSafe {
		t.Error("Expected fail-open result to be safe")
	}
	if !result.Degraded {
		t.Error("Expected degraded flag on fallback")
	}
	if result.Confidence != 0.5 {
		t.Errorf("Expected fallback confidence 0.5, got %f", result.Confidence)
	}
}

func TestVisualAnalyzer_KnownUnsafeShortCircuit(t *testing.T) {
	server := servePNG(t)
	defer server.Close()

	classifier := &fakeClassifier{}
	store := &fakeStore{known: &KnownVisual{
		PHash:      42,
		Category:   oracle.CategoryAdult,
		Confidence: 0.97,
	}}
	a := newVisualAnalyzer(classifier, store)

	url := server.URL + "/known.png"
	result := a.Analyze(context.Background(), []string{url})

	if result.IsSafe {
		t.Error("Expected known unsafe visual to flag the item")
	}
	if len(result.AdultContent) != 1 || result.AdultContent[0] != url {
		t.Errorf("Expected adult content [%s], got %v", url, result.AdultContent)
	}
	if classifier.calls != 0 {
		t.Errorf("Expected scoring service to be skipped, got %d calls", classifier.calls)
	}
}

func TestVisualAnalyzer_SavesConfirmedUnsafe(t *testing.T) {
	server := servePNG(t)
	defer server.Close()

	classifier := &fakeClassifier{result: &oracle.Result{
		IsSafe:     false,
		Category:   oracle.CategoryAdult,
		Confidence: 0.95,
	}}
	store := &fakeStore{}
	a := newVisualAnalyzer(classifier, store)

	result := a.Analyze(context.Background(), []string{server.URL + "/new.png"})

	if result.IsSafe {
		t.Error("Expected unsafe result")
	}
	if len(store.saved) != 1 {
		t.Fatalf("Expected 1 saved known visual, got %d", len(store.saved))
	}
	if store.saved[0].Category != oracle.CategoryAdult {
		t.Errorf("Expected saved category adult, got %s", store.saved[0].Category)
	}
}
