package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"rusunawa/internal/models"
)

type resyncRequest struct {
	TenantIDs []int64 `json:"tenant_ids"`
}

// handleOpsStats returns attempt outcome counts for the support team.
// Window defaults to the last 24 hours.
func (s *Server) handleOpsStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.attempts == nil {
		writeError(w, http.StatusNotImplemented, "attempt log disabled")
		return
	}

	hours := 24
	if raw := r.URL.Query().Get("since_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid since_hours")
			return
		}
		hours = parsed
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	counts, err := s.attempts.OutcomeCounts(r.Context(), since)
	if err != nil {
		s.logger.Error().Err(err).Msg("outcome counts failed")
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"since_hours": hours,
		"outcomes":    counts,
	})
}

// handleOpsResync rebuilds the report sheet from the backend's booking
// lists for the requested tenants.
func (s *Server) handleOpsResync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.reports == nil {
		writeError(w, http.StatusNotImplemented, "reports disabled")
		return
	}

	var body resyncRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.TenantIDs) == 0 {
		writeError(w, http.StatusBadRequest, "tenant_ids is required")
		return
	}

	var rows []models.Booking
	for _, tenantID := range body.TenantIDs {
		bookings, err := s.backend.TenantBookings(r.Context(), tenantID)
		if err != nil {
			s.logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("resync fetch failed")
			writeError(w, http.StatusBadGateway, "backend unavailable")
			return
		}
		rows = append(rows, bookings...)
	}

	if err := s.reports.EnqueueReplace(r.Context(), rows); err != nil {
		s.logger.Error().Err(err).Msg("resync enqueue failed")
		writeError(w, http.StatusInternalServerError, "resync enqueue failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"queued_rows": len(rows)})
}
