package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"rusunawa/internal/models"
)

// The backend serves several fields in more than one shape depending on
// which of its endpoints produced them: classification and rental type
// arrive either as a bare string or as an {id, name} object, and dates
// as either date-only or RFC3339 strings. All of that is flattened here,
// immediately after decoding, so the rest of the code sees exactly one
// canonical form.

type roomDTO struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Classification json.RawMessage `json:"classification"`
	RentalType     json.RawMessage `json:"rental_type"`
	Capacity       int             `json:"capacity"`
	Occupants      []occupantDTO   `json:"occupants"`
	IsActive       *bool           `json:"is_active"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

type occupantDTO struct {
	TenantID int64  `json:"tenant_id"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type blockedRangeDTO struct {
	RoomID int64  `json:"room_id"`
	Start  string `json:"start_date"`
	End    string `json:"end_date"`
	Reason string `json:"reason"`
}

type rateDTO struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

func (r roomDTO) normalize() (*models.Room, error) {
	classification, err := flattenNamedField(r.Classification)
	if err != nil {
		return nil, fmt.Errorf("classification: %w", err)
	}

	rentalType, err := flattenNamedField(r.RentalType)
	if err != nil {
		return nil, fmt.Errorf("rental_type: %w", err)
	}

	room := &models.Room{
		ID:             r.ID,
		Name:           r.Name,
		Classification: canonicalClassification(classification),
		RentalType:     canonicalRentalType(rentalType),
		Capacity:       r.Capacity,
		IsActive:       r.IsActive == nil || *r.IsActive,
		CreatedAt:      parseFlexibleTime(r.CreatedAt),
		UpdatedAt:      parseFlexibleTime(r.UpdatedAt),
	}

	for _, o := range r.Occupants {
		occ := models.Occupant{
			TenantID: o.TenantID,
			Status:   strings.ToLower(strings.TrimSpace(o.Status)),
		}
		if t := parseFlexibleTime(o.CheckIn); !t.IsZero() {
			occ.CheckIn = &t
		}
		if t := parseFlexibleTime(o.CheckOut); !t.IsZero() {
			occ.CheckOut = &t
		}
		room.Occupants = append(room.Occupants, occ)
	}

	return room, nil
}

func (b blockedRangeDTO) normalize(roomID int64) (models.BlockedRange, error) {
	start := parseFlexibleTime(b.Start)
	end := parseFlexibleTime(b.End)
	if start.IsZero() || end.IsZero() {
		return models.BlockedRange{}, fmt.Errorf("unparseable dates %q..%q", b.Start, b.End)
	}
	if b.RoomID != 0 {
		roomID = b.RoomID
	}
	return models.BlockedRange{RoomID: roomID, Start: start, End: end, Reason: b.Reason}, nil
}

func (r rateDTO) normalize(roomID int64, rentalType string) *models.RateQuote {
	amount, _ := r.Amount.Float64()
	return &models.RateQuote{
		RoomID:     roomID,
		RentalType: rentalType,
		Amount:     amount,
		Currency:   r.Currency,
	}
}

// flattenNamedField accepts either "name" or {"id": n, "name": "name"}.
func flattenNamedField(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("neither string nor object: %s", string(raw))
	}
	return obj.Name, nil
}

func canonicalClassification(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "female", "perempuan", "putri":
		return models.ClassFemale
	case "male", "laki-laki", "putra":
		return models.ClassMale
	case "vip":
		return models.ClassVIP
	case "meeting_room", "meeting room", "ruang_rapat", "ruang rapat":
		return models.ClassMeetingRoom
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func canonicalRentalType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily", "harian":
		return models.RentalDaily
	case "monthly", "bulanan":
		return models.RentalMonthly
	default:
		return strings.ToLower(strings.TrimSpace(raw))
	}
}

func parseFlexibleTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
