package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"rusunawa/internal/events"
	"rusunawa/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAttempt(tenantID int64, outcome string) *models.Attempt {
	return &models.Attempt{
		DraftID:    "d-1",
		TenantID:   tenantID,
		RoomID:     3,
		RoomName:   "Kamar A-101",
		RentalType: models.RentalDaily,
		StartDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Outcome:    outcome,
	}
}

func TestRecordAndListAttempts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := sampleAttempt(7, models.OutcomeAvailable)
	require.NoError(t, store.RecordAttempt(ctx, a))
	assert.NotZero(t, a.ID)

	b := sampleAttempt(7, models.OutcomeConfirmed)
	b.DraftID = "d-2"
	b.Detail = "booking 42"
	require.NoError(t, store.RecordAttempt(ctx, b))

	other := sampleAttempt(99, models.OutcomeUnavailable)
	require.NoError(t, store.RecordAttempt(ctx, other))

	attempts, err := store.TenantAttempts(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	// Newest first.
	assert.Equal(t, "d-2", attempts[0].DraftID)
	assert.Equal(t, models.OutcomeConfirmed, attempts[0].Outcome)
	assert.Equal(t, "booking 42", attempts[0].Detail)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), attempts[0].StartDate)
}

func TestTenantAttempts_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		a := sampleAttempt(7, models.OutcomeAvailable)
		a.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		require.NoError(t, store.RecordAttempt(ctx, a))
	}

	attempts, err := store.TenantAttempts(ctx, 7, 3)
	require.NoError(t, err)
	assert.Len(t, attempts, 3)
}

func TestTenantAttempts_Empty(t *testing.T) {
	store := newTestStore(t)

	attempts, err := store.TenantAttempts(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestOutcomeCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordAttempt(ctx, sampleAttempt(7, models.OutcomeAvailable)))
	require.NoError(t, store.RecordAttempt(ctx, sampleAttempt(8, models.OutcomeAvailable)))
	require.NoError(t, store.RecordAttempt(ctx, sampleAttempt(9, models.OutcomeAtCapacity)))

	counts, err := store.OutcomeCounts(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.OutcomeAvailable])
	assert.Equal(t, 1, counts[models.OutcomeAtCapacity])
}

func TestSubscriber_RecordsBookingEvents(t *testing.T) {
	store := newTestStore(t)
	bus := events.NewEventBus()
	logger := zerolog.Nop()
	SubscribeAll(bus, store, &logger)

	payload := events.BookingEventPayload{
		DraftID:    "d-evt",
		TenantID:   7,
		RoomID:     3,
		RoomName:   "Kamar A-101",
		RentalType: models.RentalDaily,
		StartDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Outcome:    models.OutcomeConfirmed,
		Detail:     "booking 42",
	}
	require.NoError(t, bus.PublishJSON(events.EventBookingConfirmed, payload))

	attempts, err := store.TenantAttempts(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "d-evt", attempts[0].DraftID)
	assert.Equal(t, models.OutcomeConfirmed, attempts[0].Outcome)
}

func TestSubscriber_IgnoresMalformedPayload(t *testing.T) {
	store := newTestStore(t)
	bus := events.NewEventBus()
	logger := zerolog.Nop()
	SubscribeAll(bus, store, &logger)

	bus.Publish(&events.Event{Type: events.EventBookingFailed, Payload: []byte("not json")})

	attempts, err := store.TenantAttempts(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}
