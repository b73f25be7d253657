package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"influencerd/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is a lightweight facade over the Gemini REST API covering the two
// surfaces this service needs: synchronous Imagen prediction and Veo
// long-running video generation (start, poll, authenticated file download).
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient validates options and constructs a Client.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// APIKeyConfigured reports whether a credential is present.
func (c *Client) APIKeyConfigured() bool {
	return c.apiKey != ""
}

// ImageRequest represents the information required to generate images.
type ImageRequest struct {
	Model       string
	Prompt      string
	SampleCount int
	AspectRatio string
}

// ImageAsset is the normalized representation of a generated image.
type ImageAsset struct {
	Data []byte
	MIME string
}

// VideoRequest represents the information required to start a video
// generation operation.
type VideoRequest struct {
	Model           string
	Prompt          string
	AspectRatio     string
	DurationSeconds int
	ImageBytes      []byte
	ImageMIME       string
}

// VideoRef points at a downloadable generated video.
type VideoRef struct {
	URI string `json:"uri"`
}

// Operation is the refreshable handle for a long-running generation call.
type Operation struct {
	Name   string
	Done   bool
	Videos []VideoRef
	Err    error
}

// Completed reports whether the provider finished the operation.
func (o *Operation) Completed() bool {
	return o != nil && o.Done
}

type imagePredictRequest struct {
	Instances  []imageInstance  `json:"instances"`
	Parameters *imageParameters `json:"parameters,omitempty"`
}

type imageInstance struct {
	Prompt string `json:"prompt"`
}

type imageParameters struct {
	SampleCount      int    `json:"sampleCount,omitempty"`
	AspectRatio      string `json:"aspectRatio,omitempty"`
	PersonGeneration string `json:"personGeneration,omitempty"`
}

type imagePredictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
}

type videoStartRequest struct {
	Instances  []videoInstance  `json:"instances"`
	Parameters *videoParameters `json:"parameters,omitempty"`
}

type videoInstance struct {
	Prompt string      `json:"prompt"`
	Image  *inlineData `json:"image,omitempty"`
}

type inlineData struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType,omitempty"`
}

type videoParameters struct {
	AspectRatio     string `json:"aspectRatio,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

type operationResponse struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *operationError `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse *struct {
			GeneratedSamples []struct {
				Video VideoRef `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

type operationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// GenerateImages performs a synchronous Imagen prediction call.
func (c *Client) GenerateImages(ctx context.Context, req ImageRequest) ([]ImageAsset, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("genai: prompt is required")
	}
	payload := imagePredictRequest{
		Instances: []imageInstance{{Prompt: req.Prompt}},
		Parameters: &imageParameters{
			SampleCount:      maxInt(req.SampleCount, 1),
			AspectRatio:      req.AspectRatio,
			PersonGeneration: "allow_adult",
		},
	}
	var resp imagePredictResponse
	if err := c.invoke(ctx, http.MethodPost, "/models/"+req.Model+":predict", payload, &resp); err != nil {
		return nil, err
	}
	assets := make([]ImageAsset, 0, len(resp.Predictions))
	for _, pred := range resp.Predictions {
		if pred.BytesBase64Encoded == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(pred.BytesBase64Encoded)
		if err != nil {
			return nil, fmt.Errorf("genai: decode image data: %w", err)
		}
		mime := pred.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		assets = append(assets, ImageAsset{Data: data, MIME: mime})
	}
	return assets, nil
}

// StartVideoGeneration submits a Veo predictLongRunning call and returns the
// operation handle to poll.
func (c *Client) StartVideoGeneration(ctx context.Context, req VideoRequest) (*Operation, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("genai: prompt is required")
	}
	instance := videoInstance{Prompt: req.Prompt}
	if len(req.ImageBytes) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		instance.Image = &inlineData{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(req.ImageBytes),
			MimeType:           mime,
		}
	}
	payload := videoStartRequest{
		Instances: []videoInstance{instance},
		Parameters: &videoParameters{
			AspectRatio:     req.AspectRatio,
			DurationSeconds: req.DurationSeconds,
		},
	}
	var resp operationResponse
	if err := c.invoke(ctx, http.MethodPost, "/models/"+req.Model+":predictLongRunning", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Name == "" {
		return nil, fmt.Errorf("genai: operation name missing in response")
	}
	return operationFromResponse(resp), nil
}

// GetOperation refreshes a long-running operation by name.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	if name == "" {
		return nil, fmt.Errorf("genai: operation name is required")
	}
	var resp operationResponse
	if err := c.invoke(ctx, http.MethodGet, "/"+strings.TrimLeft(name, "/"), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Name == "" {
		resp.Name = name
	}
	return operationFromResponse(resp), nil
}

// DownloadFile fetches a generated file by URI using header authentication.
// A non-2xx status is an error; callers do not retry or fall back.
func (c *Client) DownloadFile(ctx context.Context, uri string) ([]byte, error) {
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}
	if c.logger != nil {
		c.logger.Debug().Str("uri", uri).Msg("genai: download file")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return blob, nil
}

func (c *Client) invoke(ctx context.Context, method, path string, payload, out any) error {
	endpoint := c.baseURL + path
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.logger != nil {
		c.logger.Debug().Str("method", method).Str("path", path).Msg("genai: invoke")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		// Read the body once so the raw fallback still sees the full text
		// when the envelope decode fails partway through.
		data, _ := io.ReadAll(resp.Body)
		var apiErr apiErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		if msg := strings.TrimSpace(string(data)); msg != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func operationFromResponse(resp operationResponse) *Operation {
	op := &Operation{Name: resp.Name, Done: resp.Done}
	if resp.Error != nil {
		op.Err = fmt.Errorf("operation error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.Response != nil && resp.Response.GenerateVideoResponse != nil {
		for _, sample := range resp.Response.GenerateVideoResponse.GeneratedSamples {
			if sample.Video.URI != "" {
				op.Videos = append(op.Videos, sample.Video)
			}
		}
	}
	return op
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
