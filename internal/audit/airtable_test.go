package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRecorderUnconfigured(t *testing.T) {
	r := NewRecorder(Options{})
	if r != nil {
		t.Fatalf("expected nil recorder without credentials")
	}
	if r.Enabled() {
		t.Fatalf("nil recorder reports enabled")
	}
	if _, err := r.CreateRecord(context.Background(), Fields{}); err == nil {
		t.Fatalf("expected error from nil recorder")
	}
}

func TestCreateRecord(t *testing.T) {
	var gotPath, gotAuth string
	var gotFields map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var envelope struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&envelope)
		gotFields = envelope.Fields
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "rec-7"})
	}))
	defer srv.Close()

	r := NewRecorder(Options{APIKey: "key", BaseID: "appBase", TableName: "Videos", BaseURL: srv.URL})
	id, err := r.CreateRecord(context.Background(), Fields{"Job ID": "job-1", "Type": "Video"})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	if id != "rec-7" {
		t.Fatalf("id = %q, want rec-7", id)
	}
	if gotPath != "/appBase/Videos" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer key" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if gotFields["Job ID"] != "job-1" {
		t.Fatalf("fields = %v", gotFields)
	}
	if gotFields["Created At"] == nil {
		t.Fatalf("created at not stamped: %v", gotFields)
	}
}

func TestUpdateStatus(t *testing.T) {
	var gotMethod, gotPath string
	var gotFields map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		var envelope struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&envelope)
		gotFields = envelope.Fields
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "rec-7"})
	}))
	defer srv.Close()

	r := NewRecorder(Options{APIKey: "key", BaseID: "appBase", BaseURL: srv.URL})
	if err := r.UpdateStatus(context.Background(), "rec-7", "Failed", "provider exploded"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Fatalf("method = %q, want PATCH", gotMethod)
	}
	if gotPath != "/appBase/AI_Influencer_Videos/rec-7" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotFields["Status"] != "Failed" || gotFields["Error"] != "provider exploded" {
		t.Fatalf("fields = %v", gotFields)
	}
}

func TestCreateRecordServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"INVALID_VALUE"}`))
	}))
	defer srv.Close()

	r := NewRecorder(Options{APIKey: "key", BaseID: "appBase", BaseURL: srv.URL})
	if _, err := r.CreateRecord(context.Background(), Fields{}); err == nil {
		t.Fatalf("expected error on 422")
	}
}
