package worker

import (
	"context"
	"encoding/json"
	"time"

	"rusunawa/internal/events"
	"rusunawa/internal/models"

	"github.com/rs/zerolog"
)

// SubscribeConfirmed enqueues a report row for every confirmed booking.
func SubscribeConfirmed(bus *events.EventBus, w *ReportWorker, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingConfirmed, func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			logger.Warn().Err(err).Msg("report_worker: failed to decode confirmed event")
			return nil
		}
		if payload.BookingID == 0 {
			return nil
		}

		booking := &models.Booking{
			ID:         payload.BookingID,
			TenantID:   payload.TenantID,
			RoomID:     payload.RoomID,
			RoomName:   payload.RoomName,
			RentalType: payload.RentalType,
			StartDate:  payload.StartDate,
			EndDate:    payload.EndDate,
			Status:     "pending",
			Amount:     payload.Amount,
			CreatedAt:  event.CreatedAt,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.EnqueueBooking(ctx, booking); err != nil {
			logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("report_worker: enqueue failed")
		}
		return nil
	})
}
