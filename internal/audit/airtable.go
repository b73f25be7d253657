package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Recorder pushes job metadata records to Airtable. It is a best-effort side
// channel: pipelines call it after their own outcome is decided and swallow
// every error it returns.
type Recorder struct {
	apiKey     string
	baseURL    string
	baseID     string
	tableName  string
	httpClient *http.Client
}

// Options configures the recorder.
type Options struct {
	APIKey     string
	BaseID     string
	TableName  string
	BaseURL    string
	HTTPClient *http.Client
}

// NewRecorder constructs the recorder, or returns nil when the integration
// is not configured. A nil *Recorder is safe to call.
func NewRecorder(opts Options) *Recorder {
	if opts.APIKey == "" || opts.BaseID == "" {
		return nil
	}
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.airtable.com/v0"
	}
	tableName := opts.TableName
	if tableName == "" {
		tableName = "AI_Influencer_Videos"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Recorder{
		apiKey:     opts.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		baseID:     opts.BaseID,
		tableName:  tableName,
		httpClient: httpClient,
	}
}

// Enabled reports whether the integration is configured.
func (r *Recorder) Enabled() bool {
	return r != nil
}

// Fields is the structured record payload.
type Fields map[string]any

type recordEnvelope struct {
	Fields Fields `json:"fields"`
}

type recordResponse struct {
	ID string `json:"id"`
}

// CreateRecord persists a record and returns its opaque identifier.
func (r *Recorder) CreateRecord(ctx context.Context, fields Fields) (string, error) {
	if r == nil {
		return "", fmt.Errorf("audit: recorder not configured")
	}
	fields["Created At"] = time.Now().Format(time.RFC3339)
	var resp recordResponse
	if err := r.invoke(ctx, http.MethodPost, r.tableURL(), recordEnvelope{Fields: fields}, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("audit: record id missing in response")
	}
	return resp.ID, nil
}

// UpdateStatus patches the status (and optional error detail) of an existing
// record.
func (r *Recorder) UpdateStatus(ctx context.Context, recordID, status, errMsg string) error {
	if r == nil {
		return fmt.Errorf("audit: recorder not configured")
	}
	fields := Fields{"Status": status}
	if errMsg != "" {
		fields["Error"] = errMsg
	}
	var resp recordResponse
	return r.invoke(ctx, http.MethodPatch, r.tableURL()+"/"+url.PathEscape(recordID), recordEnvelope{Fields: fields}, &resp)
}

func (r *Recorder) tableURL() string {
	return r.baseURL + "/" + url.PathEscape(r.baseID) + "/" + url.PathEscape(r.tableName)
}

func (r *Recorder) invoke(ctx context.Context, method, endpoint string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("audit: marshal record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("audit: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("audit: invoke airtable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("audit: airtable status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("audit: decode response: %w", err)
	}
	return nil
}
