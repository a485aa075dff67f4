package booking

import (
	"context"
	"errors"
	"testing"

	"rusunawa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestResolve_DailyAndMonthly(t *testing.T) {
	backend := new(mockBackend)
	resolver := NewRateResolver(backend, nopLogger())

	room := &models.Room{ID: 3, Classification: models.ClassFemale}

	backend.On("GetRate", mock.Anything, int64(7), int64(3), models.RentalDaily).
		Return(&models.RateQuote{RoomID: 3, RentalType: models.RentalDaily, Amount: 150000}, nil)
	backend.On("GetRate", mock.Anything, int64(7), int64(3), models.RentalMonthly).
		Return(&models.RateQuote{RoomID: 3, RentalType: models.RentalMonthly, Amount: 1200000}, nil)

	quotes := resolver.Resolve(context.Background(), 7, room)
	assert.Len(t, quotes, 2)
	assert.Equal(t, 150000.0, QuoteFor(quotes, models.RentalDaily).Amount)
	assert.Equal(t, 1200000.0, QuoteFor(quotes, models.RentalMonthly).Amount)
}

func TestResolve_MeetingRoomDailyOnly(t *testing.T) {
	backend := new(mockBackend)
	resolver := NewRateResolver(backend, nopLogger())

	room := &models.Room{ID: 9, Classification: models.ClassMeetingRoom}

	backend.On("GetRate", mock.Anything, int64(7), int64(9), models.RentalDaily).
		Return(&models.RateQuote{RoomID: 9, RentalType: models.RentalDaily, Amount: 500000}, nil)

	quotes := resolver.Resolve(context.Background(), 7, room)
	assert.Len(t, quotes, 1)
	backend.AssertNotCalled(t, "GetRate", mock.Anything, int64(7), int64(9), models.RentalMonthly)
}

func TestResolve_FailureYieldsZeroQuote(t *testing.T) {
	backend := new(mockBackend)
	resolver := NewRateResolver(backend, nopLogger())

	room := &models.Room{ID: 3, Classification: models.ClassFemale}

	backend.On("GetRate", mock.Anything, int64(7), int64(3), models.RentalDaily).
		Return(nil, errors.New("pricing service down"))
	backend.On("GetRate", mock.Anything, int64(7), int64(3), models.RentalMonthly).
		Return(&models.RateQuote{RoomID: 3, RentalType: models.RentalMonthly, Amount: 1200000}, nil)

	quotes := resolver.Resolve(context.Background(), 7, room)
	assert.Len(t, quotes, 2)
	assert.Zero(t, QuoteFor(quotes, models.RentalDaily).Amount)
	assert.Equal(t, 1200000.0, QuoteFor(quotes, models.RentalMonthly).Amount)
}

func TestQuoteFor_Missing(t *testing.T) {
	q := QuoteFor(nil, models.RentalDaily)
	assert.Zero(t, q.Amount)
	assert.Equal(t, models.RentalDaily, q.RentalType)
}
