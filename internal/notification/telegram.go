package notification

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/tripdesk/service-booking/internal/application"
	"github.com/tripdesk/service-booking/internal/platform/domain"
)

const (
	maxPreview  = 280
	sendTimeout = 10 * time.Second
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts booking activity to the agent desk chat.
type TelegramNotifier struct {
	bot     messageSender
	chatID  int64
	timeout time.Duration
	logger  *zap.Logger
}

// NewTelegramNotifier returns a notifier that does nothing when token or chatID
// is empty.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		logger.Warn("telegram bot token or agent chat is empty, notifications disabled")
		return &TelegramNotifier{logger: logger}, nil
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, chatID: chatID, timeout: sendTimeout, logger: logger}, nil
}

// Enabled reports whether messages are actually sent.
func (n *TelegramNotifier) Enabled() bool {
	return n.bot != nil
}

func (n *TelegramNotifier) NotifyBookingSubmitted(ctx context.Context, bk application.BookingDTO) {
	var b strings.Builder
	fmt.Fprintf(&b, "New booking %s\n", bk.BookingNumber)
	fmt.Fprintf(&b, "From: %s <%s>\n", bk.Owner.Name, bk.Owner.Email)
	if bk.ItineraryName != "" {
		fmt.Fprintf(&b, "Itinerary: %s\n", bk.ItineraryName)
	}
	for _, s := range bk.Selections {
		fmt.Fprintf(&b, "- %s\n", s.Summary)
	}
	fmt.Fprintf(&b, "Total: %s", domain.FormatCents(bk.TotalPriceCents, bk.Currency))
	n.send(ctx, b.String())
}

func (n *TelegramNotifier) NotifyCustomerComment(ctx context.Context, bk application.BookingDTO, c application.CommentDTO) {
	body := []rune(c.Body)
	preview := c.Body
	if len(body) > maxPreview {
		preview = string(body[:maxPreview]) + "..."
	}
	text := fmt.Sprintf("New message on %s (%s)\n%s: %s", bk.BookingNumber, bk.Status, c.AuthorName, preview)
	n.send(ctx, text)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	if n.bot == nil {
		n.logger.Debug("notification skipped (bot disabled)", zap.String("text", text))
		return
	}

	if err := ctx.Err(); err != nil {
		n.logger.Debug("notification skipped (context cancelled)", zap.Int64("chat_id", n.chatID))
		return
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	// The bot client takes no context, so the caller stops waiting on ctx
	// and the send finishes (or times out) on its own.
	msg := tgbotapi.NewMessage(n.chatID, text)
	done := make(chan error, 1)
	go func() {
		_, err := n.bot.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			n.logger.Error("failed to send telegram notification",
				zap.Int64("chat_id", n.chatID),
				zap.Error(err),
			)
		}
	case <-ctx.Done():
		n.logger.Warn("telegram notification abandoned",
			zap.Int64("chat_id", n.chatID),
			zap.Error(ctx.Err()),
		)
	}
}
