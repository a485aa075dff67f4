package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"rusunawa/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestCheck_OpenRoom(t *testing.T) {
	backend := new(mockBackend)
	checker := NewAvailabilityChecker(backend, nopLogger())

	room := &models.Room{ID: 1, Classification: models.ClassFemale, Capacity: 2}
	start, end := date(2025, 7, 1), date(2025, 7, 3)

	backend.On("BlockedRanges", mock.Anything, int64(1), start, end).Return([]models.BlockedRange{}, nil)
	backend.On("OccupantCount", mock.Anything, int64(1), start, end).Return(1, nil)

	result, err := checker.Check(context.Background(), room, start, end)
	require.NoError(t, err)
	assert.True(t, result.DateAvailable)
	assert.True(t, result.CapacityAvailable)
	assert.Equal(t, 1, result.AvailableSlots)
	assert.Empty(t, result.CapacityWarning)
}

func TestCheck_BlockedRangeWins(t *testing.T) {
	backend := new(mockBackend)
	checker := NewAvailabilityChecker(backend, nopLogger())

	room := &models.Room{ID: 1, Classification: models.ClassMale, Capacity: 4}
	start, end := date(2025, 7, 1), date(2025, 7, 10)

	blocked := []models.BlockedRange{
		{RoomID: 1, Start: date(2025, 7, 5), End: date(2025, 7, 6), Reason: "fumigation"},
	}
	backend.On("BlockedRanges", mock.Anything, int64(1), start, end).Return(blocked, nil)
	backend.On("OccupantCount", mock.Anything, int64(1), start, end).Return(0, nil)

	result, err := checker.Check(context.Background(), room, start, end)
	require.NoError(t, err)
	assert.False(t, result.DateAvailable)
	assert.Equal(t, "fumigation", result.BlockedReason)
}

func TestCheck_AtCapacity(t *testing.T) {
	backend := new(mockBackend)
	checker := NewAvailabilityChecker(backend, nopLogger())

	room := &models.Room{ID: 1, Classification: models.ClassFemale, Capacity: 2}
	start, end := date(2025, 7, 1), date(2025, 7, 3)

	backend.On("BlockedRanges", mock.Anything, int64(1), start, end).Return([]models.BlockedRange{}, nil)
	backend.On("OccupantCount", mock.Anything, int64(1), start, end).Return(2, nil)

	result, err := checker.Check(context.Background(), room, start, end)
	require.NoError(t, err)
	assert.True(t, result.DateAvailable)
	assert.False(t, result.CapacityAvailable)
	assert.Equal(t, 0, result.AvailableSlots)
}

func TestCheck_MeetingRoomSkipsOccupancy(t *testing.T) {
	backend := new(mockBackend)
	checker := NewAvailabilityChecker(backend, nopLogger())

	room := &models.Room{ID: 9, Classification: models.ClassMeetingRoom, Capacity: 20}
	start, end := date(2025, 7, 1), date(2025, 7, 2)

	backend.On("BlockedRanges", mock.Anything, int64(9), start, end).Return([]models.BlockedRange{}, nil)

	result, err := checker.Check(context.Background(), room, start, end)
	require.NoError(t, err)
	assert.True(t, result.CapacityAvailable)
	assert.Equal(t, 20, result.AvailableSlots)
	backend.AssertNotCalled(t, "OccupantCount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck_OccupancyFailureDowngradesToWarning(t *testing.T) {
	backend := new(mockBackend)
	checker := NewAvailabilityChecker(backend, nopLogger())

	room := &models.Room{
		ID: 1, Classification: models.ClassFemale, Capacity: 2,
		Occupants: []models.Occupant{{TenantID: 5, Status: models.OccupantApproved}},
	}
	start, end := date(2025, 7, 1), date(2025, 7, 3)

	backend.On("BlockedRanges", mock.Anything, int64(1), start, end).Return([]models.BlockedRange{}, nil)
	backend.On("OccupantCount", mock.Anything, int64(1), start, end).Return(0, errors.New("backend down"))

	result, err := checker.Check(context.Background(), room, start, end)
	require.NoError(t, err, "a failed occupancy check must not block")
	assert.True(t, result.CapacityAvailable)
	assert.NotEmpty(t, result.CapacityWarning)
	assert.Equal(t, 1, result.AvailableSlots)
}

func TestCheck_BlockedRangesFailureIsFatal(t *testing.T) {
	backend := new(mockBackend)
	checker := NewAvailabilityChecker(backend, nopLogger())

	room := &models.Room{ID: 1, Classification: models.ClassFemale, Capacity: 2}
	start, end := date(2025, 7, 1), date(2025, 7, 3)

	backend.On("BlockedRanges", mock.Anything, int64(1), start, end).Return(nil, errors.New("timeout"))

	_, err := checker.Check(context.Background(), room, start, end)
	assert.Error(t, err)
}

func TestCheck_NilRoom(t *testing.T) {
	checker := NewAvailabilityChecker(new(mockBackend), nopLogger())
	_, err := checker.Check(context.Background(), nil, time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrRoomRequired)
}
