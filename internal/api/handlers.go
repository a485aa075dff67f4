package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rusunawa/internal/booking"
	"rusunawa/internal/models"
)

type eligibilityRequest struct {
	TenantID  int64  `json:"tenant_id"`
	RoomID    int64  `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Notes     string `json:"notes,omitempty"`
}

type submitRequest struct {
	TenantID int64 `json:"tenant_id"`
}

type flowResponse struct {
	State   string                 `json:"state"`
	DraftID string                 `json:"draft_id,omitempty"`
	Result  *booking.CheckResult   `json:"result,omitempty"`
	Quotes  []models.RateQuote     `json:"quotes,omitempty"`
	Receipt *models.BookingReceipt `json:"receipt,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.App.Version})
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rooms, err := s.backend.ListRooms(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list rooms failed")
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *Server) handleRoomByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, ok := pathID(w, r.URL.Path, "/api/v1/rooms/")
	if !ok {
		return
	}

	room, err := s.backend.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body eligibilityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.TenantID == 0 || body.RoomID == 0 {
		writeError(w, http.StatusBadRequest, "tenant_id and room_id are required")
		return
	}

	if !s.requireSession(w, r, body.TenantID) {
		return
	}

	start, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date; expected YYYY-MM-DD")
		return
	}
	var end time.Time
	if body.EndDate != "" {
		end, err = time.Parse("2006-01-02", body.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date; expected YYYY-MM-DD")
			return
		}
	}

	room, err := s.backend.GetRoom(r.Context(), body.RoomID)
	if err != nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}

	flow := s.flows.get(body.TenantID)
	if err := flow.SelectDates(body.TenantID, room, start, end, body.Notes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := flow.CheckEligibility(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrCheckInProgress), errors.Is(err, booking.ErrStaleCheck):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, booking.ErrInvalidState):
			writeError(w, http.StatusConflict, err.Error())
		default:
			s.logger.Error().Err(err).Int64("tenant_id", body.TenantID).Msg("eligibility check failed")
			writeError(w, http.StatusBadGateway, "availability check failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, flowResponse{
		State:   string(state),
		DraftID: draftID(flow),
		Result:  flow.Result(),
		Quotes:  flow.Quotes(),
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body submitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.TenantID == 0 {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	if !s.requireSession(w, r, body.TenantID) {
		return
	}

	flow := s.flows.get(body.TenantID)
	state, err := flow.Submit(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidState), errors.Is(err, booking.ErrStaleCheck):
			writeError(w, http.StatusConflict, err.Error())
		default:
			s.logger.Error().Err(err).Int64("tenant_id", body.TenantID).Msg("submission failed")
			writeError(w, http.StatusBadGateway, "submission failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, flowResponse{
		State:   string(state),
		Receipt: flow.Receipt(),
	})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tenantID, ok := pathID(w, r.URL.Path, "/api/v1/drafts/")
	if !ok {
		return
	}

	s.flows.get(tenantID).Reset()
	s.flows.drop(tenantID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var session models.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.sessions.Establish(r.Context(), &session); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleSessionByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(w, r.URL.Path, "/api/v1/sessions/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		session, err := s.sessions.Current(r.Context(), tenantID)
		if err != nil {
			s.logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("session lookup failed")
			writeError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}
		if session == nil {
			writeError(w, http.StatusNotFound, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, session)
	case http.MethodDelete:
		if err := s.sessions.Drop(r.Context(), tenantID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to drop session")
			return
		}
		s.flows.get(tenantID).Reset()
		s.flows.drop(tenantID)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTenant routes /api/v1/tenants/{id}/history and .../history/export.
func (s *Server) handleTenant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/tenants/")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	tenantID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || tenantID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "history":
		s.serveHistory(w, r, tenantID)
	case len(parts) == 3 && parts[1] == "history" && parts[2] == "export":
		s.serveHistoryExport(w, r, tenantID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) serveHistory(w http.ResponseWriter, r *http.Request, tenantID int64) {
	bookings, err := s.backend.TenantBookings(r.Context(), tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("tenant bookings failed")
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}

	// Payments and local attempts are best-effort additions.
	payments, err := s.backend.TenantPayments(r.Context(), tenantID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("tenant_id", tenantID).Msg("tenant payments failed")
	}

	var attempts []models.Attempt
	if s.attempts != nil {
		attempts, err = s.attempts.TenantAttempts(r.Context(), tenantID, 50)
		if err != nil {
			s.logger.Warn().Err(err).Int64("tenant_id", tenantID).Msg("tenant attempts failed")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"payments": payments,
		"attempts": attempts,
	})
}

func (s *Server) serveHistoryExport(w http.ResponseWriter, r *http.Request, tenantID int64) {
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "exports disabled")
		return
	}

	bookings, err := s.backend.TenantBookings(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	payments, err := s.backend.TenantPayments(r.Context(), tenantID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("tenant_id", tenantID).Msg("tenant payments failed")
	}

	path, err := s.exporter.BookingHistory(tenantID, bookings, payments)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("history export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\"riwayat.xlsx\"")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

// requireSession enforces an active session for booking operations.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request, tenantID int64) bool {
	if s.sessions == nil {
		return true
	}
	session, err := s.sessions.Current(r.Context(), tenantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tenant_id", tenantID).Msg("session lookup failed")
		writeError(w, http.StatusInternalServerError, "session lookup failed")
		return false
	}
	if session == nil {
		writeError(w, http.StatusUnauthorized, "no active session")
		return false
	}
	return true
}

func draftID(flow *booking.Flow) string {
	if d := flow.Draft(); d != nil {
		return d.DraftID
	}
	return ""
}

func pathID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
