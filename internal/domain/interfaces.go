package domain

import (
	"context"
	"time"

	"rusunawa/internal/models"
)

// BackendAPI is the authoritative rusunawa backend. Every eligibility
// decision ultimately defers to it; local state is advisory only.
type BackendAPI interface {
	GetRoom(ctx context.Context, roomID int64) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	BlockedRanges(ctx context.Context, roomID int64, start, end time.Time) ([]models.BlockedRange, error)
	OccupantCount(ctx context.Context, roomID int64, start, end time.Time) (int, error)
	GetRate(ctx context.Context, tenantID, roomID int64, rentalType string) (*models.RateQuote, error)
	SubmitBooking(ctx context.Context, draft *models.BookingDraft) (*models.BookingReceipt, error)
	TenantBookings(ctx context.Context, tenantID int64) ([]models.Booking, error)
	TenantPayments(ctx context.Context, tenantID int64) ([]models.Payment, error)
}

// SessionStore keeps the tenant session (token + profile snapshot).
type SessionStore interface {
	GetSession(ctx context.Context, tenantID int64) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, tenantID int64) error
}

// SessionManager is the single source of truth for auth state consumed
// by handlers.
type SessionManager interface {
	Current(ctx context.Context, tenantID int64) (*models.Session, error)
	Establish(ctx context.Context, session *models.Session) error
	Drop(ctx context.Context, tenantID int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ReportEnqueuer schedules report tasks for the Sheets worker: single
// row upserts for confirmed bookings and full-sheet rebuilds for ops
// resyncs.
type ReportEnqueuer interface {
	EnqueueBooking(ctx context.Context, booking *models.Booking) error
	EnqueueReplace(ctx context.Context, bookings []models.Booking) error
}

// Notifier delivers manager-facing notifications.
type Notifier interface {
	NotifyManagers(text string) error
}

// AttemptLog records eligibility checks and submission outcomes for
// support and audit. Never consulted for eligibility decisions.
type AttemptLog interface {
	RecordAttempt(ctx context.Context, attempt *models.Attempt) error
	TenantAttempts(ctx context.Context, tenantID int64, limit int) ([]models.Attempt, error)
	OutcomeCounts(ctx context.Context, since time.Time) (map[string]int, error)
}
