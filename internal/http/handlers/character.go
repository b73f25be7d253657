package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"influencerd/internal/pipeline"
)

// CharacterGenerate accepts a character description and schedules reference
// image generation.
func (a *App) CharacterGenerate(w http.ResponseWriter, r *http.Request) {
	description := strings.TrimSpace(r.FormValue("description"))
	if description == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "description is required")
		return
	}
	fullSet, _ := strconv.ParseBool(r.FormValue("full_set"))

	jobID := uuid.NewString()
	ctx := detachedContext(r)
	params := pipeline.CharacterParams{Description: description, FullSet: fullSet}
	a.accepted(w, jobID, "Character generation started", func() {
		a.Pipelines.GenerateCharacter(ctx, jobID, params)
	})
}
