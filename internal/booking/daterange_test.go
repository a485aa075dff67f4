package booking

import (
	"testing"
	"time"

	"rusunawa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthClamped(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"plain month", date(2025, 3, 15), date(2025, 4, 15)},
		{"jan 31 non-leap", date(2025, 1, 31), date(2025, 2, 28)},
		{"jan 31 leap", date(2024, 1, 31), date(2024, 2, 29)},
		{"jan 30 non-leap", date(2025, 1, 30), date(2025, 2, 28)},
		{"mar 31 to apr 30", date(2025, 3, 31), date(2025, 4, 30)},
		{"dec rolls year", date(2025, 12, 10), date(2026, 1, 10)},
		{"first of month", date(2025, 5, 1), date(2025, 6, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthClamped(tt.start))
		})
	}
}

func TestValidateRange_Daily(t *testing.T) {
	room := &models.Room{ID: 1, RentalType: models.RentalDaily}
	now := date(2025, 6, 1)

	t.Run("valid", func(t *testing.T) {
		rng, err := ValidateRange(room, date(2025, 6, 10), date(2025, 6, 12), now, 0)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 6, 10), rng.Start)
		assert.Equal(t, date(2025, 6, 12), rng.End)
		assert.Equal(t, 2, rng.Nights())
	})

	t.Run("end equals start", func(t *testing.T) {
		_, err := ValidateRange(room, date(2025, 6, 10), date(2025, 6, 10), now, 0)
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := ValidateRange(room, date(2025, 6, 10), date(2025, 6, 9), now, 0)
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})

	t.Run("start in past", func(t *testing.T) {
		_, err := ValidateRange(room, date(2025, 5, 30), date(2025, 6, 2), now, 0)
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("start today is allowed", func(t *testing.T) {
		_, err := ValidateRange(room, date(2025, 6, 1), date(2025, 6, 2), now, 0)
		assert.NoError(t, err)
	})

	t.Run("too far ahead", func(t *testing.T) {
		_, err := ValidateRange(room, date(2025, 6, 20), date(2025, 6, 22), now, 10)
		assert.ErrorIs(t, err, ErrDateTooFar)
	})
}

func TestValidateRange_Monthly(t *testing.T) {
	room := &models.Room{ID: 1, RentalType: models.RentalMonthly}
	now := date(2025, 1, 1)

	t.Run("end derived from start", func(t *testing.T) {
		rng, err := ValidateRange(room, date(2025, 1, 31), time.Time{}, now, 0)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 2, 28), rng.End)
	})

	t.Run("short end silently replaced", func(t *testing.T) {
		rng, err := ValidateRange(room, date(2025, 3, 15), date(2025, 3, 20), now, 0)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 4, 15), rng.End)
	})

	t.Run("longer end kept", func(t *testing.T) {
		rng, err := ValidateRange(room, date(2025, 3, 15), date(2025, 6, 15), now, 0)
		require.NoError(t, err)
		assert.Equal(t, date(2025, 6, 15), rng.End)
	})

	t.Run("start in past", func(t *testing.T) {
		_, err := ValidateRange(room, date(2024, 12, 15), time.Time{}, now, 0)
		assert.ErrorIs(t, err, ErrStartInPast)
	})
}

func TestValidateRange_NilRoom(t *testing.T) {
	_, err := ValidateRange(nil, date(2025, 6, 10), date(2025, 6, 12), date(2025, 6, 1), 0)
	assert.ErrorIs(t, err, ErrRoomRequired)
}

func TestValidateRange_NormalizesTimeOfDay(t *testing.T) {
	room := &models.Room{ID: 1, RentalType: models.RentalDaily}
	now := time.Date(2025, 6, 1, 18, 45, 0, 0, time.UTC)

	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)

	rng, err := ValidateRange(room, start, end, now, 0)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 6, 10), rng.Start)
	assert.Equal(t, date(2025, 6, 11), rng.End)
}
