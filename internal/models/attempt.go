package models

import "time"

// Attempt is one row in the local audit log: an eligibility check or a
// submission and its outcome. Advisory only; the backend remains the
// source of truth for bookings.
type Attempt struct {
	ID         int64     `json:"id"`
	DraftID    string    `json:"draft_id"`
	TenantID   int64     `json:"tenant_id"`
	RoomID     int64     `json:"room_id"`
	RoomName   string    `json:"room_name"`
	RentalType string    `json:"rental_type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
