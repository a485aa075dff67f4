package booking

import (
	"context"

	"rusunawa/internal/domain"
	"rusunawa/internal/models"

	"github.com/rs/zerolog"
)

// RateResolver fetches applicable prices from the backend. One request
// per rental type: daily always, monthly unless the room is a meeting
// room. A failed lookup yields a zero-amount quote and a log entry; the
// booking flow proceeds with an unpriced display rather than blocking.
type RateResolver struct {
	backend domain.BackendAPI
	logger  *zerolog.Logger
}

func NewRateResolver(backend domain.BackendAPI, logger *zerolog.Logger) *RateResolver {
	return &RateResolver{backend: backend, logger: logger}
}

func (r *RateResolver) Resolve(ctx context.Context, tenantID int64, room *models.Room) []models.RateQuote {
	rentalTypes := []string{models.RentalDaily}
	if !room.IsMeetingRoom() {
		rentalTypes = append(rentalTypes, models.RentalMonthly)
	}

	quotes := make([]models.RateQuote, 0, len(rentalTypes))
	for _, rt := range rentalTypes {
		quote, err := r.backend.GetRate(ctx, tenantID, room.ID, rt)
		if err != nil {
			r.logger.Warn().Err(err).
				Int64("tenant_id", tenantID).
				Int64("room_id", room.ID).
				Str("rental_type", rt).
				Msg("rate lookup failed, showing unpriced")
			quotes = append(quotes, models.RateQuote{RoomID: room.ID, RentalType: rt})
			continue
		}
		quotes = append(quotes, *quote)
	}

	return quotes
}

// QuoteFor returns the quote matching the rental type, or a zero quote.
func QuoteFor(quotes []models.RateQuote, rentalType string) models.RateQuote {
	for _, q := range quotes {
		if q.RentalType == rentalType {
			return q
		}
	}
	return models.RateQuote{RentalType: rentalType}
}
