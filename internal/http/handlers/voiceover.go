package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"influencerd/internal/pipeline"
	"influencerd/internal/providers/speech"
)

// VoiceoverGenerate accepts a script and schedules speech synthesis.
func (a *App) VoiceoverGenerate(w http.ResponseWriter, r *http.Request) {
	script := strings.TrimSpace(r.FormValue("script"))
	if script == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "script is required")
		return
	}
	lang := r.FormValue("language")
	if lang == "" {
		lang = "en"
	}
	if _, err := speech.ValidateLanguage(lang); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	jobID := uuid.NewString()
	ctx := detachedContext(r)
	params := pipeline.VoiceoverParams{Script: script, Language: lang}
	a.accepted(w, jobID, "Voiceover generation started", func() {
		a.Pipelines.GenerateVoiceover(ctx, jobID, params)
	})
}
