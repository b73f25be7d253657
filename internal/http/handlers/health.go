package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status           string  `json:"status"`
	APIKeyConfigured bool    `json:"api_key_configured"`
	AirtableEnabled  bool    `json:"airtable_enabled"`
	Timestamp        float64 `json:"timestamp"`
}

// Health reports whether the provider credential is configured and whether
// the audit integration is enabled.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		APIKeyConfigured: a.Config.GeminiAPIKey != "",
		AirtableEnabled:  a.Audit.Enabled(),
		Timestamp:        float64(time.Now().UnixMilli()) / 1000,
	})
}

// Root returns service metadata and the endpoint map.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"message": "AI Influencer Video Generator API",
		"version": "2.0.0",
		"endpoints": map[string]string{
			"health":     "/health",
			"character":  "/api/v1/character/generate",
			"video":      "/api/v1/video/generate",
			"voiceover":  "/api/v1/voiceover/generate",
			"subtitle":   "/api/v1/subtitle/generate",
			"compose":    "/api/v1/video/compose",
			"job_status": "/api/v1/job/{job_id}",
			"download":   "/api/v1/download/{filename}",
		},
	})
}
