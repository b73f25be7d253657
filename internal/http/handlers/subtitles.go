package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"influencerd/internal/pipeline"
	"influencerd/internal/providers/speech"
	"influencerd/internal/storage"
)

// SubtitleGenerate accepts a subtitle burn-in request against a previously
// generated video.
func (a *App) SubtitleGenerate(w http.ResponseWriter, r *http.Request) {
	videoJobID := strings.TrimSpace(r.FormValue("video_job_id"))
	if videoJobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "video_job_id is required")
		return
	}
	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "text is required")
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

	fontSize := 24
	if v := r.FormValue("font_size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			a.error(w, http.StatusBadRequest, "bad_request", "font_size must be a positive integer")
			return
		}
		fontSize = parsed
	}
	fontColor := r.FormValue("font_color")
	if fontColor == "" {
		fontColor = "white"
	}

	if !a.Store.Exists(storage.DirOutput + "/" + storage.ArtifactName(videoJobID, "video", "mp4")) {
		a.error(w, http.StatusNotFound, "not_found", fmt.Sprintf("video not found for job %s", videoJobID))
		return
	}

	jobID := uuid.NewString()
	params := pipeline.SubtitleParams{
		VideoJobID: videoJobID,
		Text:       text,
		Language:   lang,
		FontSize:   fontSize,
		FontColor:  fontColor,
	}
	ctx := detachedContext(r)
	a.accepted(w, jobID, "Subtitle burn-in started", func() {
		a.Pipelines.BurnSubtitles(ctx, jobID, params)
	})
}
