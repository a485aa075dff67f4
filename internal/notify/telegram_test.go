package notify

import (
	"errors"
	"testing"
	"time"

	"rusunawa/internal/events"
	"rusunawa/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func newTestNotifier(sender *fakeSender, chats ...int64) *TelegramNotifier {
	logger := zerolog.Nop()
	return &TelegramNotifier{bot: sender, chats: chats, logger: &logger}
}

func TestNotifyManagers_AllChats(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender, 100, 200)

	require.NoError(t, n.NotifyManagers("halo"))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, int64(100), sender.sent[0].ChatID)
	assert.Equal(t, int64(200), sender.sent[1].ChatID)
	assert.Equal(t, "halo", sender.sent[0].Text)
}

func TestNotifyManagers_ReportsSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	n := newTestNotifier(sender, 100)

	assert.Error(t, n.NotifyManagers("halo"))
}

func TestSubscribeBookingEvents_Confirmed(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender, 100)
	bus := events.NewEventBus()
	n.SubscribeBookingEvents(bus)

	payload := events.BookingEventPayload{
		BookingID:  42,
		TenantID:   7,
		RoomName:   "Kamar A-101",
		RentalType: models.RentalDaily,
		StartDate:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		Outcome:    models.OutcomeConfirmed,
		Amount:     300000,
	}
	require.NoError(t, bus.PublishJSON(events.EventBookingConfirmed, payload))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "#42")
	assert.Contains(t, sender.sent[0].Text, "Kamar A-101")
	assert.Contains(t, sender.sent[0].Text, "10.06.2025")
}

func TestSubscribeBookingEvents_Failed(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender, 100)
	bus := events.NewEventBus()
	n.SubscribeBookingEvents(bus)

	payload := events.BookingEventPayload{
		TenantID: 7,
		RoomName: "Kamar A-101",
		Outcome:  models.OutcomeFailed,
		Detail:   "backend rejected",
	}
	require.NoError(t, bus.PublishJSON(events.EventBookingFailed, payload))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "backend rejected")
}

func TestSubscribeBookingEvents_MalformedPayload(t *testing.T) {
	sender := &fakeSender{}
	n := newTestNotifier(sender, 100)
	bus := events.NewEventBus()
	n.SubscribeBookingEvents(bus)

	bus.Publish(&events.Event{Type: events.EventBookingConfirmed, Payload: []byte("not json")})
	assert.Empty(t, sender.sent)
}
