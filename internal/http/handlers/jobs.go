package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"influencerd/internal/storage"
)

// JobStatus returns the current job record snapshot.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	job, ok := a.Registry.Get(jobID)
	if !ok {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	a.json(w, http.StatusOK, jobStatusFromRecord(job))
}

// Download serves a completed artifact by filename. The only check is
// existence under the output directory; names carrying path separators are
// rejected outright.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid filename")
		return
	}
	data, err := a.Store.Read(r.Context(), storage.DirOutput+"/"+filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.error(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		a.Logger.Error().Err(err).Str("filename", filename).Msg("handlers: artifact read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read file")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
