package history

import (
	"context"
	"encoding/json"
	"time"

	"rusunawa/internal/events"
	"rusunawa/internal/models"

	"github.com/rs/zerolog"
)

const recordTimeout = 5 * time.Second

// SubscribeAll wires the store to the booking event stream. Recording is
// best-effort; a failed write is logged and never propagated back to the
// booking flow.
func SubscribeAll(bus *events.EventBus, store *Store, logger *zerolog.Logger) {
	handler := func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to decode booking event")
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		attempt := &models.Attempt{
			DraftID:    payload.DraftID,
			TenantID:   payload.TenantID,
			RoomID:     payload.RoomID,
			RoomName:   payload.RoomName,
			RentalType: payload.RentalType,
			StartDate:  payload.StartDate,
			EndDate:    payload.EndDate,
			Outcome:    payload.Outcome,
			Detail:     payload.Detail,
		}
		if err := store.RecordAttempt(ctx, attempt); err != nil {
			logger.Error().Err(err).
				Str("draft_id", payload.DraftID).
				Str("outcome", payload.Outcome).
				Msg("failed to record booking attempt")
		}
		return nil
	}

	bus.Subscribe(events.EventEligibilityChecked, handler)
	bus.Subscribe(events.EventBookingConfirmed, handler)
	bus.Subscribe(events.EventBookingFailed, handler)
}
