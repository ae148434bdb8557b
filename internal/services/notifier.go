package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// MessageSender is the slice of the bot API the notifier needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
}

// Notifier fans a message out to every configured admin and the report
// chat, fire-and-forget. There is no acknowledgment protocol, so a
// failed recipient is logged and skipped, never retried.
type Notifier struct {
	sender     MessageSender
	configRepo *db.StaffConfigRepository
}

func NewNotifier(sender MessageSender, configRepo *db.StaffConfigRepository) *Notifier {
	return &Notifier{
		sender:     sender,
		configRepo: configRepo,
	}
}

// NotifyAdmins returns how many deliveries succeeded out of how many
// recipients are configured. The error is non-nil only when the
// recipient list itself could not be loaded; per-recipient delivery
// failures are counted, not returned.
func (n *Notifier) NotifyAdmins(ctx context.Context, text string) (delivered, total int, err error) {
	config, err := n.configRepo.Get()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load staff config: %w", err)
	}

	recipients := make([]int64, 0, len(config.AdminIDs)+1)
	recipients = append(recipients, config.AdminIDs...)
	if config.ReportChatID != 0 {
		recipients = append(recipients, config.ReportChatID)
	}

	for _, chatID := range recipients {
		_, sendErr := n.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if sendErr != nil {
			log.Printf("[NOTIFY] Failed to notify %d: %v", chatID, sendErr)
			continue
		}
		delivered++
	}

	return delivered, len(recipients), nil
}
