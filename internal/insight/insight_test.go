package insight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediascope/internal/summary"
)

type mockProvider struct {
	response string
	err      error
	calls    int
}

func (m *mockProvider) Generate(_ context.Context, _ string, _ int) (string, error) {
	m.calls++
	return m.response, m.err
}

func (m *mockProvider) IsConfigured() bool { return true }

func sentimentView() summary.View {
	return summary.View{
		Key:       summary.KeySentiment,
		Title:     "Sentiment Breakdown",
		LabelName: "Sentiment",
		ValueName: "Count",
		Rows:      []summary.Row{{Label: "Positive", Value: 12}, {Label: "Negative", Value: 3}},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sentimentView())
	if !strings.Contains(prompt, `{"Sentiment": "Positive", "Count": 12}`) {
		t.Errorf("expected serialized rows in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "3 key insights") {
		t.Error("expected instruction template in prompt")
	}
}

func TestForViewSuccess(t *testing.T) {
	mock := &mockProvider{response: "The mood is mostly positive."}
	r := NewRequester(mock, 512)

	got := r.ForView(context.Background(), sentimentView())
	if got != "The mood is mostly positive." {
		t.Errorf("expected verbatim provider text, got %q", got)
	}
}

func TestForViewUnconfigured(t *testing.T) {
	r := NewRequester(NewGeminiProvider("gemini-2.0-flash", "", "", 0), 512)

	got := r.ForView(context.Background(), sentimentView())
	if got != MsgNotConfigured {
		t.Errorf("expected configuration warning, got %q", got)
	}
}

func TestForViewPlaceholderKey(t *testing.T) {
	p := NewGeminiProvider("gemini-2.0-flash", "", "YOUR_GEMINI_API_KEY", 0)
	if p.IsConfigured() {
		t.Error("expected placeholder key to count as unconfigured")
	}
}

func TestForViewNilProvider(t *testing.T) {
	r := NewRequester(nil, 512)
	if got := r.ForView(context.Background(), sentimentView()); got != MsgNotConfigured {
		t.Errorf("expected configuration warning, got %q", got)
	}
}

func TestForViewNoCandidates(t *testing.T) {
	mock := &mockProvider{err: ErrNoCandidates}
	r := NewRequester(mock, 512)

	if got := r.ForView(context.Background(), sentimentView()); got != MsgNoInsights {
		t.Errorf("expected no-insights message, got %q", got)
	}
}

func TestForViewTransportFailure(t *testing.T) {
	mock := &mockProvider{err: errors.New("connection refused")}
	r := NewRequester(mock, 512)

	got := r.ForView(context.Background(), sentimentView())
	if got == "" {
		t.Fatal("expected non-empty diagnostic")
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("expected failure description embedded, got %q", got)
	}
}

func TestForViewsIsolatesFailures(t *testing.T) {
	mock := &mockProvider{err: errors.New("boom")}
	r := NewRequester(mock, 512)

	views := []summary.View{
		sentimentView(),
		{Key: summary.KeyPlatform, LabelName: "Platform", ValueName: "Engagements"},
	}
	insights := r.ForViews(context.Background(), views)
	if len(insights) != 2 {
		t.Fatalf("expected commentary for all views, got %d", len(insights))
	}
	if mock.calls != 2 {
		t.Errorf("expected one exchange per view, got %d", mock.calls)
	}
	for key, text := range insights {
		if text == "" {
			t.Errorf("view %s: expected diagnostic text", key)
		}
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected key in query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Three insights."}]}}]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("gemini-2.0-flash", srv.URL, "test-key", 0)
	got, err := p.Generate(context.Background(), "prompt", 256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Three insights." {
		t.Errorf("expected candidate text, got %q", got)
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("gemini-2.0-flash", srv.URL, "test-key", 0)
	_, err := p.Generate(context.Background(), "prompt", 256)
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

func TestGeminiGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewGeminiProvider("gemini-2.0-flash", srv.URL, "test-key", 0)
	r := NewRequester(p, 256)

	got := r.ForView(context.Background(), sentimentView())
	if got == "" {
		t.Fatal("expected non-empty diagnostic")
	}
	if !strings.Contains(got, "500") {
		t.Errorf("expected status in diagnostic, got %q", got)
	}
}
