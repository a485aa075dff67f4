package notify

import (
	"encoding/json"
	"fmt"

	"rusunawa/internal/config"
	"rusunawa/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the subset of the bot API the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier pushes booking notifications into the managers'
// Telegram chats. Delivery is best-effort.
type TelegramNotifier struct {
	bot    sender
	chats  []int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(cfg config.NotifyConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    bot,
		chats:  cfg.ManagerChats,
		logger: logger,
	}, nil
}

// NotifyManagers отправляет текст во все чаты менеджеров
func (n *TelegramNotifier) NotifyManagers(text string) error {
	var lastErr error
	for _, chatID := range n.chats {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to notify manager")
			lastErr = err
		}
	}
	return lastErr
}

// SubscribeBookingEvents notifies managers about confirmed and failed
// submissions.
func (n *TelegramNotifier) SubscribeBookingEvents(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingConfirmed, func(event *events.Event) error {
		payload, ok := n.decode(event)
		if !ok {
			return nil
		}
		text := fmt.Sprintf(`🆕 Booking baru #%d

🏠 Kamar: %s
📅 Check-in: %s
📅 Check-out: %s
👤 Tenant: %d
💰 Biaya: %.0f`,
			payload.BookingID,
			payload.RoomName,
			payload.StartDate.Format("02.01.2006"),
			payload.EndDate.Format("02.01.2006"),
			payload.TenantID,
			payload.Amount)
		_ = n.NotifyManagers(text)
		return nil
	})

	bus.Subscribe(events.EventBookingFailed, func(event *events.Event) error {
		payload, ok := n.decode(event)
		if !ok {
			return nil
		}
		text := fmt.Sprintf("⚠️ Booking gagal: kamar %s, tenant %d\n%s",
			payload.RoomName, payload.TenantID, payload.Detail)
		_ = n.NotifyManagers(text)
		return nil
	})
}

func (n *TelegramNotifier) decode(event *events.Event) (events.BookingEventPayload, bool) {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Warn().Err(err).Str("event_type", event.Type).Msg("failed to decode booking event")
		return payload, false
	}
	return payload, true
}
