package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"influencerd/internal/pipeline"
	"influencerd/internal/providers/image"
	"influencerd/internal/storage"
)

const maxUploadBytes = 16 << 20

var allowedAspectRatios = map[string]struct{}{
	"9:16": {},
	"16:9": {},
	"1:1":  {},
	"4:3":  {},
	"3:4":  {},
}

// VideoGenerate accepts a video generation request. The character reference
// comes either as an uploaded image or as a prior character job id plus a
// role selector; exactly one of the two must resolve.
func (a *App) VideoGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && err != http.ErrNotMultipart {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid form payload")
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	productDescription := strings.TrimSpace(r.FormValue("product_description"))
	if prompt == "" || productDescription == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "prompt and product_description are required")
		return
	}

	aspectRatio := r.FormValue("aspect_ratio")
	if aspectRatio == "" {
		aspectRatio = a.Config.DefaultAspectRatio
	}
	if _, ok := allowedAspectRatios[aspectRatio]; !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported aspect ratio")
		return
	}

	duration := a.Config.DefaultDuration
	if v := r.FormValue("duration_seconds"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "duration_seconds must be an integer")
			return
		}
		duration = parsed
	}
	if duration < 1 || duration > 8 {
		a.error(w, http.StatusBadRequest, "bad_request", "duration_seconds must be between 1 and 8")
		return
	}

	jobID := uuid.NewString()

	refKey, err := a.resolveReferenceImage(r, jobID)
	if err != nil {
		switch e := err.(type) {
		case *referenceError:
			a.error(w, e.status, e.code, e.Error())
		default:
			a.error(w, http.StatusInternalServerError, "internal", "failed to store reference image")
		}
		return
	}

	params := pipeline.VideoParams{
		Prompt:             prompt,
		ProductDescription: productDescription,
		ReferenceImageKey:  refKey,
		AspectRatio:        aspectRatio,
		DurationSeconds:    duration,
	}
	ctx := detachedContext(r)
	a.accepted(w, jobID, "Video generation started", func() {
		a.Pipelines.GenerateVideo(ctx, jobID, params)
	})
}

type referenceError struct {
	status  int
	code    string
	message string
}

func (e *referenceError) Error() string { return e.message }

// resolveReferenceImage locates the character reference for a video job:
// a prior character job's artifact wins over a fresh upload, matching the
// original contract.
func (a *App) resolveReferenceImage(r *http.Request, jobID string) (string, error) {
	if characterJobID := strings.TrimSpace(r.FormValue("character_job_id")); characterJobID != "" {
		role := r.FormValue("character_image_type")
		if role == "" {
			role = image.RoleFace
		}
		if !image.ValidRole(role) {
			return "", &referenceError{http.StatusBadRequest, "bad_request", "unsupported character_image_type"}
		}
		key := storage.DirOutput + "/" + storage.ArtifactName(characterJobID, role, "jpg")
		if !a.Store.Exists(key) {
			return "", &referenceError{
				http.StatusNotFound, "not_found",
				fmt.Sprintf("character image not found for job %s", characterJobID),
			}
		}
		return key, nil
	}

	file, _, err := r.FormFile("character_face")
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return "", &referenceError{
				http.StatusBadRequest, "bad_request",
				"either character_face or character_job_id must be provided",
			}
		}
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	key := storage.DirTemp + "/" + storage.ArtifactName(jobID, image.RoleFace, "jpg")
	if _, err := a.Store.Write(r.Context(), key, data); err != nil {
		return "", err
	}
	return key, nil
}

// VideoCompose muxes a generated video with an optional voiceover track.
func (a *App) VideoCompose(w http.ResponseWriter, r *http.Request) {
	videoJobID := strings.TrimSpace(r.FormValue("video_job_id"))
	if videoJobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "video_job_id is required")
		return
	}
	if !a.Store.Exists(storage.DirOutput + "/" + storage.ArtifactName(videoJobID, "video", "mp4")) {
		a.error(w, http.StatusNotFound, "not_found", fmt.Sprintf("video not found for job %s", videoJobID))
		return
	}
	voiceoverJobID := strings.TrimSpace(r.FormValue("voiceover_job_id"))
	if voiceoverJobID != "" {
		if !a.Store.Exists(storage.DirOutput + "/" + storage.ArtifactName(voiceoverJobID, "voiceover", "mp3")) {
			a.error(w, http.StatusNotFound, "not_found", fmt.Sprintf("voiceover not found for job %s", voiceoverJobID))
			return
		}
	}

	jobID := uuid.NewString()
	ctx := detachedContext(r)
	params := pipeline.ComposeParams{VideoJobID: videoJobID, VoiceoverJobID: voiceoverJobID}
	a.accepted(w, jobID, "Video composition started", func() {
		a.Pipelines.ComposeVideo(ctx, jobID, params)
	})
}
