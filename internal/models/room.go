package models

import "time"

type Room struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Classification string     `json:"classification"`
	RentalType     string     `json:"rental_type"`
	Capacity       int        `json:"capacity"`
	Occupants      []Occupant `json:"occupants,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Occupant struct {
	TenantID  int64      `json:"tenant_id"`
	Status    string     `json:"status"`
	CheckIn   *time.Time `json:"check_in,omitempty"`
	CheckOut  *time.Time `json:"check_out,omitempty"`
}

// OccupiedCount returns the number of occupants that count toward
// capacity. Approved and checked-in occupants occupy a slot; everyone
// else does not.
func (r *Room) OccupiedCount() int {
	count := 0
	for _, o := range r.Occupants {
		if o.Status == OccupantApproved || o.Status == OccupantCheckedIn {
			count++
		}
	}
	return count
}

// IsMeetingRoom reports whether occupancy and monthly pricing rules are
// skipped for this room.
func (r *Room) IsMeetingRoom() bool {
	return r.Classification == ClassMeetingRoom
}

// BlockedRange is a backend-reported interval during which a room cannot
// be booked. The backend is authoritative; the client only tests
// intersection.
type BlockedRange struct {
	RoomID int64     `json:"room_id"`
	Start  time.Time `json:"start_date"`
	End    time.Time `json:"end_date"`
	Reason string    `json:"reason,omitempty"`
}

// Intersects reports whether [start, end] overlaps the blocked range.
// Boundaries touch counts as an intersection: a booking ending on the
// first blocked day is still rejected.
func (b BlockedRange) Intersects(start, end time.Time) bool {
	return !end.Before(b.Start) && !start.After(b.End)
}

type RateQuote struct {
	RoomID     int64   `json:"room_id"`
	RentalType string  `json:"rental_type"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency,omitempty"`
}
