package google

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rusunawa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowCache(t *testing.T) {
	s := &SheetsService{rowCache: make(map[int64]int)}

	_, ok := s.getCachedRow(42)
	assert.False(t, ok)

	s.setCachedRow(42, 7)
	row, ok := s.getCachedRow(42)
	assert.True(t, ok)
	assert.Equal(t, 7, row)

	s.ClearCache()
	_, ok = s.getCachedRow(42)
	assert.False(t, ok)
}

func TestBookingRowValues(t *testing.T) {
	b := &models.Booking{
		ID:         42,
		TenantID:   7,
		RoomID:     3,
		RoomName:   "Kamar A-101",
		RentalType: models.RentalDaily,
		StartDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Status:     "approved",
		Amount:     300000,
	}

	row := bookingRowValues(b)
	require.Len(t, row, 9)
	assert.Equal(t, int64(42), row[0])
	assert.Equal(t, "2025-06-10", row[5])
	assert.Equal(t, "approved", row[7])
}

func TestGetServiceAccountEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"client_email":"reporter@project.iam.gserviceaccount.com"}`), 0o600))

	s := &SheetsService{}
	email, err := s.GetServiceAccountEmail(path)
	require.NoError(t, err)
	assert.Equal(t, "reporter@project.iam.gserviceaccount.com", email)
}

func TestGetServiceAccountEmail_MissingFile(t *testing.T) {
	s := &SheetsService{}
	_, err := s.GetServiceAccountEmail("/nonexistent/creds.json")
	assert.Error(t, err)
}
