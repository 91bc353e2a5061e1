package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/nback/internal/model"
)

func testSession() model.Session {
	return model.Session{
		Mode:            model.ModeDaily,
		NLevel:          2,
		Score:           18,
		TotalQuestions:  20,
		MaxCombo:        9,
		MaxLevelReached: 3,
	}
}

func newServer(t *testing.T, status int, body string, seen *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			*seen = string(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func messageBody(text string) string {
	raw, _ := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         DefaultModel,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"content":       []map[string]any{{"type": "text", "text": text}},
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
	})
	return string(raw)
}

func TestClaudeFeedback(t *testing.T) {
	var request string
	srv := newServer(t, http.StatusOK, messageBody("Meow! Not bad, human."), &request)
	p := NewClaude(ClaudeConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Timeout: time.Second}, nil)

	got := Get(context.Background(), p, testSession(), LocaleEN, nil)
	if got != "Meow! Not bad, human." {
		t.Fatalf("unexpected feedback %q", got)
	}
	for _, want := range []string{"Score: 18/20", "Accuracy: 90%", "Max Daily Level: 3", "Max Combo: 9"} {
		if !strings.Contains(request, want) {
			t.Fatalf("request missing %q: %s", want, request)
		}
	}
}

func TestClaudeFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		key    string
		loc    Locale
		want   string
	}{
		{"missing key", http.StatusOK, messageBody("unused"), "", LocaleEN, fallbacks[LocaleEN].noKey},
		{"server error", http.StatusInternalServerError, `{"type":"error","error":{"type":"api_error","message":"boom"}}`, "k", LocaleEN, fallbacks[LocaleEN].apiError},
		{"empty text", http.StatusOK, messageBody("  "), "k", LocaleZH, fallbacks[LocaleZH].empty},
		{"zh error", http.StatusInternalServerError, `{}`, "k", LocaleZH, fallbacks[LocaleZH].apiError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			p := NewClaude(ClaudeConfig{APIKey: tt.key, BaseURL: srv.URL + "/", Timeout: time.Second}, nil)
			if got := Get(context.Background(), p, testSession(), tt.loc, nil); got != tt.want {
				t.Fatalf("Get = %q, want %q", got, tt.want)
			}
		})
	}
}

type stubProvider struct {
	text string
	err  error
}

func (s stubProvider) Feedback(context.Context, model.Session, Locale) (string, error) {
	return s.text, s.err
}

func TestGetWithStub(t *testing.T) {
	if got := Get(context.Background(), nil, testSession(), LocaleEN, nil); got != fallbacks[LocaleEN].noKey {
		t.Fatalf("nil provider should map to no-key text, got %q", got)
	}
	if got := Get(context.Background(), stubProvider{err: errors.New("x")}, testSession(), Locale("fr"), nil); got != fallbacks[LocaleEN].apiError {
		t.Fatalf("unknown locale should fall back to English, got %q", got)
	}
	if got := Get(context.Background(), stubProvider{text: " purr \n"}, testSession(), LocaleEN, nil); got != "purr" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}

func TestPrompts(t *testing.T) {
	s := testSession()
	if !strings.Contains(systemPrompt(s, LocaleZH), "Chinese") {
		t.Fatalf("zh prompt should request Chinese")
	}
	if !strings.Contains(systemPrompt(s, LocaleEN), "peaked at 3-Back") {
		t.Fatalf("daily prompt should mention the peak level")
	}
	s.Mode = model.ModeAdventure
	s.MaxLevelReached = 0
	if !strings.Contains(systemPrompt(s, LocaleEN), "Adventure Mode Level 2") {
		t.Fatalf("adventure prompt should mention the level")
	}
	if !strings.Contains(statsPrompt(s), "Max Daily Level: N/A") {
		t.Fatalf("missing peak should render N/A")
	}
}

func TestParseLocale(t *testing.T) {
	if ParseLocale("ZH") != LocaleZH || ParseLocale("") != LocaleEN || ParseLocale("de") != LocaleEN {
		t.Fatalf("unexpected locale parsing")
	}
}
