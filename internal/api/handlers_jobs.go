package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/pechaform/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleJobResult streams the converted document once the job completed.
func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	out, ok := job.Output()
	if !ok {
		snap := job.Snapshot()
		msg := fmt.Sprintf("job is %s", snap.Status)
		if snap.Status == pipeline.StatusFailed && len(snap.Errors) > 0 {
			msg += ": " + snap.Errors[len(snap.Errors)-1]
		}
		jsonError(w, msg, http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.Write(out.Data)
}
