package booking

import (
	"context"
	"time"

	"rusunawa/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GetRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *mockBackend) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *mockBackend) BlockedRanges(ctx context.Context, roomID int64, start, end time.Time) ([]models.BlockedRange, error) {
	args := m.Called(ctx, roomID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BlockedRange), args.Error(1)
}

func (m *mockBackend) OccupantCount(ctx context.Context, roomID int64, start, end time.Time) (int, error) {
	args := m.Called(ctx, roomID, start, end)
	return args.Int(0), args.Error(1)
}

func (m *mockBackend) GetRate(ctx context.Context, tenantID, roomID int64, rentalType string) (*models.RateQuote, error) {
	args := m.Called(ctx, tenantID, roomID, rentalType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateQuote), args.Error(1)
}

func (m *mockBackend) SubmitBooking(ctx context.Context, draft *models.BookingDraft) (*models.BookingReceipt, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingReceipt), args.Error(1)
}

func (m *mockBackend) TenantBookings(ctx context.Context, tenantID int64) ([]models.Booking, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockBackend) TenantPayments(ctx context.Context, tenantID int64) ([]models.Payment, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}
