// Package notify pushes booking-request summaries to the sales admins over
// Telegram. Notification failures are logged and never surfaced to the
// booking caller.
package notify

import (
	"context"
	"fmt"
	"strings"

	"alfares-pricing/internal/documents"
	"alfares-pricing/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	logger  *zap.Logger
}

// New creates the notifier. An empty token disables notifications; the
// returned Notifier is still safe to call.
func New(token string, chatIDs []int64, logger *zap.Logger) (*Notifier, error) {
	n := &Notifier{chatIDs: chatIDs, logger: logger}

	if token == "" {
		logger.Warn("Telegram notifications disabled - no token configured")
		return n, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	n.bot = botAPI
	return n, nil
}

func (n *Notifier) Enabled() bool {
	return n.bot != nil && len(n.chatIDs) > 0
}

// BookingCreated sends the booking summary to every admin chat, attaching
// the quote workbook when a path is given.
func (n *Notifier) BookingCreated(ctx context.Context, req storage.BookingRequest, items []storage.Billboard, quotePath string) {
	if !n.Enabled() {
		n.logger.Warn("Skipping booking notification - notifier disabled")
		return
	}

	text := FormatBookingNotification(req, items)

	for _, chatID := range n.chatIDs {
		if chatID == 0 {
			n.logger.Warn("Skipping notification to zero chat ID")
			continue
		}

		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error("Failed to send booking notification",
				zap.Int64("chat_id", chatID),
				zap.Int64("booking_id", req.ID),
				zap.Error(err))
			continue
		}

		if quotePath == "" {
			continue
		}
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(quotePath))
		doc.Caption = fmt.Sprintf("تفاصيل طلب الحجز #%d", req.ID)
		if _, err := n.bot.Send(doc); err != nil {
			n.logger.Error("Failed to send quote workbook",
				zap.Int64("chat_id", chatID),
				zap.Int64("booking_id", req.ID),
				zap.Error(err))
		}
	}
}

// FormatBookingNotification builds the admin-facing booking summary.
func FormatBookingNotification(req storage.BookingRequest, items []storage.Billboard) string {
	var boards []string
	for _, b := range items {
		boards = append(boards, fmt.Sprintf("- %s (%s، %s)", b.Name, b.Size, b.City))
	}

	return fmt.Sprintf(
		"📋 طلب حجز جديد #%d\n\n"+
			"العميل: %s\n"+
			"الهاتف: %s\n"+
			"فئة العميل: %s\n"+
			"المدة: %d شهر\n"+
			"عدد اللوحات: %d\n"+
			"%s\n"+
			"──────────────────\n"+
			"الإجمالي: %s",
		req.ID,
		req.ClientName,
		req.Phone,
		req.Customer,
		req.Months,
		len(items),
		strings.Join(boards, "\n"),
		documents.FormatCurrency(req.Total),
	)
}
