package models

import "time"

// BookingDraft is the transient, pre-submission booking a tenant is
// assembling. It lives only in flow state and is discarded after the
// backend accepts or rejects it.
type BookingDraft struct {
	DraftID    string    `json:"draft_id"`
	TenantID   int64     `json:"tenant_id"`
	RoomID     int64     `json:"room_id"`
	RoomName   string    `json:"room_name"`
	RentalType string    `json:"rental_type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookingReceipt is the backend's answer to a submitted draft.
type BookingReceipt struct {
	BookingID int64     `json:"booking_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Booking is a confirmed reservation as reported by the backend, used
// for history listings and exports.
type Booking struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	RoomID     int64     `json:"room_id"`
	RoomName   string    `json:"room_name"`
	RentalType string    `json:"rental_type"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

type Payment struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	TenantID  int64     `json:"tenant_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"method,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
