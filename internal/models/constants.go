package models

// Room classifications. Meeting rooms skip monthly pricing and occupancy
// checks; the backend owns the canonical list.
const (
	ClassFemale      = "female"
	ClassMale        = "male"
	ClassVIP         = "vip"
	ClassMeetingRoom = "meeting_room"
)

// Rental types (harian / bulanan).
const (
	RentalDaily   = "daily"
	RentalMonthly = "monthly"
)

// Occupant statuses. Only approved and checked_in count toward occupancy.
const (
	OccupantApproved   = "approved"
	OccupantCheckedIn  = "checked_in"
	OccupantCheckedOut = "checked_out"
	OccupantRejected   = "rejected"
	OccupantPending    = "pending"
)

// Booking attempt outcomes recorded in the local history log.
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
	OutcomeAtCapacity  = "at_capacity"
	OutcomeConfirmed   = "confirmed"
	OutcomeFailed      = "failed"
)

const (
	// DefaultSessionTTL время жизни сессии арендатора
	DefaultSessionTTL = 24 * 60 * 60 // 24 hours in seconds

	// RoomCacheTTL время жизни кэша каталога комнат
	RoomCacheTTL = 5 * 60 // 5 minutes in seconds

	// WorkerQueueSize размер очереди воркера отчетов
	WorkerQueueSize = 256

	// DefaultMaxAdvanceDays максимальный горизонт бронирования
	DefaultMaxAdvanceDays = 365

	// RateLimitRequests запросов в окне на ключ API
	RateLimitRequests = 30

	// RateLimitWindow окно ограничения частоты в секундах
	RateLimitWindow = 60
)
