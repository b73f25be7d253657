package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Synthesizer converts script text into spoken audio with a single
// synchronous call.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, lang string) ([]byte, error)
}

// GoogleTTSOptions configures the translate TTS client.
type GoogleTTSOptions struct {
	BaseURL    string
	HTTPClient *http.Client
}

// GoogleTTS synthesizes speech through the Google Translate TTS endpoint.
// The endpoint is unauthenticated but caps the fragment length, so long
// scripts are split on sentence boundaries and the MP3 fragments are
// concatenated. MP3 frames are self-delimiting, which makes plain byte
// concatenation a valid stream.
type GoogleTTS struct {
	baseURL    string
	httpClient *http.Client
}

const maxFragmentLen = 200

// NewGoogleTTS constructs the client.
func NewGoogleTTS(opts GoogleTTSOptions) *GoogleTTS {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = "https://translate.google.com"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &GoogleTTS{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// ValidateLanguage reports whether lang parses as a BCP 47 language tag and
// returns its canonical base form (e.g. "en-US" -> "en").
func ValidateLanguage(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q", lang)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

func (g *GoogleTTS) Synthesize(ctx context.Context, script, lang string) ([]byte, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, fmt.Errorf("script is required")
	}
	code, err := ValidateLanguage(lang)
	if err != nil {
		return nil, err
	}

	var audio []byte
	for _, fragment := range splitScript(script) {
		data, err := g.fetchFragment(ctx, fragment, code)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}
	return audio, nil
}

func (g *GoogleTTS) fetchFragment(ctx context.Context, text, lang string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)
	endpoint := g.baseURL + "/translate_tts?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create tts request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke tts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	return data, nil
}

// splitScript breaks the script into fragments the endpoint accepts,
// preferring sentence boundaries.
func splitScript(script string) []string {
	if len(script) <= maxFragmentLen {
		return []string{script}
	}
	var fragments []string
	var current strings.Builder
	for _, sentence := range strings.SplitAfter(script, ". ") {
		if current.Len()+len(sentence) > maxFragmentLen && current.Len() > 0 {
			fragments = append(fragments, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		fragments = append(fragments, strings.TrimSpace(current.String()))
	}
	return fragments
}

var _ Synthesizer = (*GoogleTTS)(nil)
