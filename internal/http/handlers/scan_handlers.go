package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/apparelops/lot-tracker/internal/scan"
)

func scanSessionResponse(s *scan.Session) ScanSessionResponse {
	state, remaining := s.State()
	return ScanSessionResponse{
		ID:                s.ID,
		State:             state,
		CooldownRemaining: int(remaining.Round(time.Second) / time.Second),
	}
}

// StartScanSessionHandler godoc
// @Summary Start a scan session
// @Tags scan
// @Produce json
// @Security BearerAuth
// @Success 201 {object} ScanSessionResponse
// @Failure 500 {string} string "Decoder unavailable"
// @Router /scan/sessions [post]
func StartScanSessionHandler(w http.ResponseWriter, r *http.Request) {
	// The session outlives this request; do not tie it to r.Context().
	session, err := scanManager.StartSession(context.Background())
	if err != nil {
		http.Error(w, "could not start scan session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, scanSessionResponse(session))
}

// FeedDecodeHandler godoc
// @Summary Deliver one decoded payload to a session
// @Description Stands in for the camera decoder; payloads during a cooldown are dropped
// @Tags scan
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param decode body DecodeRequest true "Decoded text payload"
// @Success 202 {object} ScanSessionResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Unknown session"
// @Router /scan/sessions/{id}/decodes [post]
func FeedDecodeHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DecodeRequest
	if err := readJSON(w, r, &req); err != nil || req.Payload == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	if err := scanManager.Feed(id, req.Payload); err != nil {
		if errors.Is(err, scan.ErrSessionNotFound) || errors.Is(err, scan.ErrSessionStopped) {
			http.Error(w, "scan session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not deliver decode", http.StatusInternalServerError)
		return
	}

	session, err := scanManager.Get(id)
	if err != nil {
		http.Error(w, "scan session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, scanSessionResponse(session))
}

// GetScanSessionHandler godoc
// @Summary Session state and cooldown countdown
// @Tags scan
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ScanSessionResponse
// @Failure 404 {string} string "Unknown session"
// @Router /scan/sessions/{id} [get]
func GetScanSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, err := scanManager.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "scan session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, scanSessionResponse(session))
}

// StopScanSessionHandler godoc
// @Summary Stop a scan session
// @Tags scan
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204 "Stopped"
// @Failure 404 {string} string "Unknown session"
// @Router /scan/sessions/{id} [delete]
func StopScanSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := scanManager.StopSession(chi.URLParam(r, "id")); err != nil {
		http.Error(w, "scan session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
