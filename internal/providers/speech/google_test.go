package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateLanguage(t *testing.T) {
	code, err := ValidateLanguage("en-US")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if code != "en" {
		t.Fatalf("code = %q, want en", code)
	}
	if _, err := ValidateLanguage("!!"); err == nil {
		t.Fatalf("expected error for invalid tag")
	}
}

func TestSynthesizeShortScript(t *testing.T) {
	var requests int
	var gotLang, gotText, gotClient string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		gotLang = r.URL.Query().Get("tl")
		gotText = r.URL.Query().Get("q")
		gotClient = r.URL.Query().Get("client")
		_, _ = w.Write([]byte("mp3-frame"))
	}))
	defer srv.Close()

	tts := NewGoogleTTS(GoogleTTSOptions{BaseURL: srv.URL})
	audio, err := tts.Synthesize(context.Background(), "Hello world.", "en")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if requests != 1 {
		t.Fatalf("requests = %d, want 1", requests)
	}
	if gotLang != "en" || gotText != "Hello world." || gotClient != "tw-ob" {
		t.Fatalf("query = lang %q text %q client %q", gotLang, gotText, gotClient)
	}
	if string(audio) != "mp3-frame" {
		t.Fatalf("audio = %q", audio)
	}
}

func TestSynthesizeSplitsLongScript(t *testing.T) {
	var fragments []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fragments = append(fragments, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	sentence := strings.Repeat("word ", 30) + "end. "
	script := strings.TrimSpace(strings.Repeat(sentence, 4))

	tts := NewGoogleTTS(GoogleTTSOptions{BaseURL: srv.URL})
	audio, err := tts.Synthesize(context.Background(), script, "en")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if len(fragments) < 2 {
		t.Fatalf("fragments = %d, want split", len(fragments))
	}
	for i, frag := range fragments {
		if len(frag) > 2*maxFragmentLen {
			t.Fatalf("fragment %d too long: %d bytes", i, len(frag))
		}
	}
	// One byte per fragment concatenated back together.
	if len(audio) != len(fragments) {
		t.Fatalf("audio length = %d, want %d", len(audio), len(fragments))
	}
}

func TestSynthesizeRejectsBadInput(t *testing.T) {
	tts := NewGoogleTTS(GoogleTTSOptions{BaseURL: "http://127.0.0.1:0"})
	if _, err := tts.Synthesize(context.Background(), "   ", "en"); err == nil {
		t.Fatalf("expected error for empty script")
	}
	if _, err := tts.Synthesize(context.Background(), "hi", "!!"); err == nil {
		t.Fatalf("expected error for invalid language")
	}
}

func TestSynthesizePropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tts := NewGoogleTTS(GoogleTTSOptions{BaseURL: srv.URL})
	if _, err := tts.Synthesize(context.Background(), "hi", "en"); err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("err = %v, want status 429", err)
	}
}
