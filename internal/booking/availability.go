package booking

import (
	"context"
	"time"

	"rusunawa/internal/domain"
	"rusunawa/internal/models"

	"github.com/rs/zerolog"
)

// CheckResult is the outcome of one availability check.
type CheckResult struct {
	DateAvailable     bool   `json:"date_available"`
	CapacityAvailable bool   `json:"capacity_available"`
	AvailableSlots    int    `json:"available_slots"`
	BlockedReason     string `json:"blocked_reason,omitempty"`
	// CapacityWarning is set when the occupancy check failed and was
	// skipped. The booking is not blocked; the backend rejects
	// over-capacity submissions itself.
	CapacityWarning string `json:"capacity_warning,omitempty"`
}

// AvailabilityChecker answers whether a room can be booked for a range.
// Blocked-date intervals from the backend are authoritative. Occupancy
// is checked for every classification except meeting rooms, and only as
// a best-effort: a failed occupancy lookup degrades to a warning.
type AvailabilityChecker struct {
	backend domain.BackendAPI
	logger  *zerolog.Logger
}

func NewAvailabilityChecker(backend domain.BackendAPI, logger *zerolog.Logger) *AvailabilityChecker {
	return &AvailabilityChecker{backend: backend, logger: logger}
}

func (c *AvailabilityChecker) Check(ctx context.Context, room *models.Room, start, end time.Time) (*CheckResult, error) {
	if room == nil {
		return nil, ErrRoomRequired
	}

	blocked, err := c.backend.BlockedRanges(ctx, room.ID, start, end)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{DateAvailable: true, CapacityAvailable: true}
	for _, br := range blocked {
		if br.Intersects(start, end) {
			result.DateAvailable = false
			result.BlockedReason = br.Reason
			break
		}
	}

	if room.IsMeetingRoom() {
		result.AvailableSlots = room.Capacity
		return result, nil
	}

	count, err := c.backend.OccupantCount(ctx, room.ID, start, end)
	if err != nil {
		// Best-effort: never block on a failed occupancy lookup.
		c.logger.Warn().Err(err).Int64("room_id", room.ID).Msg("occupancy check failed, continuing without it")
		result.CapacityWarning = "occupancy could not be verified"
		result.AvailableSlots = room.Capacity - room.OccupiedCount()
		if result.AvailableSlots < 0 {
			result.AvailableSlots = 0
		}
		return result, nil
	}

	result.AvailableSlots = room.Capacity - count
	if result.AvailableSlots <= 0 {
		result.AvailableSlots = 0
		result.CapacityAvailable = false
	}

	return result, nil
}
