package booking

import (
	"context"
	"sync"
	"time"

	"rusunawa/internal/domain"
	"rusunawa/internal/events"
	"rusunawa/internal/metrics"
	"rusunawa/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State of a booking flow.
type State string

const (
	StateIdle          State = "idle"
	StateDatesSelected State = "dates_selected"
	StateChecking      State = "checking"
	StateAvailable     State = "available"
	StateUnavailable   State = "unavailable"
	StateAtCapacity    State = "at_capacity"
	StateSubmitting    State = "submitting"
	StateConfirmed     State = "confirmed"
	StateFailed        State = "failed"
)

// Flow drives a single booking draft through
// Idle -> DatesSelected -> Checking -> {Available, Unavailable, AtCapacity}
// -> Submitting -> {Confirmed, Failed}. One flow per draft; every page
// that needs booking eligibility goes through here instead of wiring the
// validator, checker and resolver itself.
//
// Network calls run without the lock held. A sequence counter discards
// results that arrive after the flow has moved on, so a slow response
// can never overwrite a later transition.
type Flow struct {
	backend        domain.BackendAPI
	bus            domain.EventPublisher
	maxAdvanceDays int
	logger         *zerolog.Logger

	checker  *AvailabilityChecker
	resolver *RateResolver

	now func() time.Time

	mu      sync.Mutex
	seq     uint64
	state   State
	draft   *models.BookingDraft
	room    *models.Room
	quotes  []models.RateQuote
	result  *CheckResult
	receipt *models.BookingReceipt
}

func NewFlow(backend domain.BackendAPI, bus domain.EventPublisher, maxAdvanceDays int, logger *zerolog.Logger) *Flow {
	if maxAdvanceDays <= 0 {
		maxAdvanceDays = models.DefaultMaxAdvanceDays
	}
	return &Flow{
		backend:        backend,
		bus:            bus,
		maxAdvanceDays: maxAdvanceDays,
		logger:         logger,
		checker:        NewAvailabilityChecker(backend, logger),
		resolver:       NewRateResolver(backend, logger),
		now:            time.Now,
		state:          StateIdle,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns the current draft, nil once confirmed or reset.
func (f *Flow) Draft() *models.BookingDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Flow) Quotes() []models.RateQuote {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quotes
}

func (f *Flow) Result() *CheckResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

func (f *Flow) Receipt() *models.BookingReceipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receipt
}

// SelectDates validates the requested range and builds the draft. On a
// validation error the flow state is unchanged and no availability
// check is triggered.
func (f *Flow) SelectDates(tenantID int64, room *models.Room, start, end time.Time, notes string) error {
	rng, err := ValidateRange(room, start, end, f.now(), f.maxAdvanceDays)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	f.state = StateDatesSelected
	f.room = room
	f.result = nil
	f.receipt = nil
	f.draft = &models.BookingDraft{
		DraftID:    uuid.NewString(),
		TenantID:   tenantID,
		RoomID:     room.ID,
		RoomName:   room.Name,
		RentalType: room.RentalType,
		StartDate:  rng.Start,
		EndDate:    rng.End,
		Notes:      notes,
		CreatedAt:  f.now(),
	}
	return nil
}

// CheckEligibility runs the availability check and rate lookup for the
// selected dates. Only one check may be outstanding at a time; a result
// arriving after the flow moved on is discarded.
func (f *Flow) CheckEligibility(ctx context.Context) (State, error) {
	f.mu.Lock()
	switch f.state {
	case StateDatesSelected, StateAvailable, StateUnavailable, StateAtCapacity:
	case StateChecking:
		f.mu.Unlock()
		return StateChecking, ErrCheckInProgress
	default:
		state := f.state
		f.mu.Unlock()
		return state, ErrInvalidState
	}

	f.state = StateChecking
	seq := f.seq
	draft := f.draft
	room := f.room
	f.mu.Unlock()

	result, err := f.checker.Check(ctx, room, draft.StartDate, draft.EndDate)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.seq != seq {
			return f.state, ErrStaleCheck
		}
		f.state = StateDatesSelected
		return f.state, err
	}

	quotes := f.resolver.Resolve(ctx, draft.TenantID, room)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq != seq {
		return f.state, ErrStaleCheck
	}

	f.result = result
	f.quotes = quotes

	switch {
	case !result.DateAvailable:
		f.state = StateUnavailable
	case !result.CapacityAvailable:
		f.state = StateAtCapacity
	default:
		f.state = StateAvailable
	}

	metrics.IncEligibility(string(f.state))
	f.publish(events.EventEligibilityChecked, draft, string(f.state), "")

	return f.state, nil
}

// Submit posts the draft to the backend. On success the draft is
// cleared and the flow terminates in Confirmed. On failure the flow
// returns to Available so the tenant can retry.
func (f *Flow) Submit(ctx context.Context) (State, error) {
	f.mu.Lock()
	if f.state != StateAvailable {
		state := f.state
		f.mu.Unlock()
		return state, ErrInvalidState
	}
	f.state = StateSubmitting
	seq := f.seq
	draft := f.draft
	quotes := f.quotes
	f.mu.Unlock()

	f.publish(events.EventBookingSubmitted, draft, models.OutcomeAvailable, "")

	receipt, err := f.backend.SubmitBooking(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq != seq {
		return f.state, ErrStaleCheck
	}

	if err != nil {
		f.state = StateAvailable
		metrics.IncSubmission("failed")
		f.publish(events.EventBookingFailed, draft, models.OutcomeFailed, err.Error())
		return f.state, err
	}

	f.state = StateConfirmed
	f.receipt = receipt
	metrics.IncSubmission("confirmed")
	f.publishConfirmed(draft, quotes, receipt)
	f.draft = nil

	return f.state, nil
}

// Reset returns the flow to Idle and discards all draft state.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.state = StateIdle
	f.draft = nil
	f.room = nil
	f.quotes = nil
	f.result = nil
	f.receipt = nil
}

func (f *Flow) publish(eventType string, d *models.BookingDraft, outcome, detail string) {
	if f.bus == nil || d == nil {
		return
	}
	payload := events.BookingEventPayload{
		DraftID:    d.DraftID,
		TenantID:   d.TenantID,
		RoomID:     d.RoomID,
		RoomName:   d.RoomName,
		RentalType: d.RentalType,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Outcome:    outcome,
		Detail:     detail,
	}
	if err := f.bus.PublishJSON(eventType, payload); err != nil {
		f.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func (f *Flow) publishConfirmed(draft *models.BookingDraft, quotes []models.RateQuote, receipt *models.BookingReceipt) {
	if f.bus == nil {
		return
	}
	payload := events.BookingEventPayload{
		DraftID:    draft.DraftID,
		BookingID:  receipt.BookingID,
		TenantID:   draft.TenantID,
		RoomID:     draft.RoomID,
		RoomName:   draft.RoomName,
		RentalType: draft.RentalType,
		StartDate:  draft.StartDate,
		EndDate:    draft.EndDate,
		Outcome:    models.OutcomeConfirmed,
		Amount:     QuoteFor(quotes, draft.RentalType).Amount,
	}
	if err := f.bus.PublishJSON(events.EventBookingConfirmed, payload); err != nil {
		f.logger.Error().Err(err).Int64("booking_id", receipt.BookingID).Msg("publish event error")
	}
}
