package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/ad/go-telegram-shifts/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

type fakeSender struct {
	sent    []int64
	failFor map[int64]bool
}

func (f *fakeSender) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	chatID, _ := params.ChatID.(int64)
	if f.failFor[chatID] {
		return nil, errors.New("forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, chatID)
	return &tgmodels.Message{}, nil
}

func TestNotifyAdminsReachesEveryRecipient(t *testing.T) {
	queue := newTestQueue(t)
	configRepo := db.NewStaffConfigRepository(queue)
	if err := configRepo.Save(&models.StaffConfig{
		AdminIDs:     []int64{11, 22},
		ReportChatID: -100500,
	}); err != nil {
		t.Fatal(err)
	}

	sender := &fakeSender{}
	notifier := NewNotifier(sender, configRepo)

	delivered, total, err := notifier.NotifyAdmins(context.Background(), "📣 Прогноз")
	if err != nil {
		t.Fatal(err)
	}
	if delivered != 3 || total != 3 {
		t.Errorf("Got delivered=%d total=%d, want 3/3", delivered, total)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("Expected 3 sends, got %d", len(sender.sent))
	}
	if sender.sent[2] != -100500 {
		t.Errorf("Report chat must be the last recipient, got %d", sender.sent[2])
	}
}

func TestNotifyAdminsCountsPartialFailure(t *testing.T) {
	queue := newTestQueue(t)
	configRepo := db.NewStaffConfigRepository(queue)
	if err := configRepo.Save(&models.StaffConfig{
		AdminIDs: []int64{11, 22, 33},
	}); err != nil {
		t.Fatal(err)
	}

	sender := &fakeSender{failFor: map[int64]bool{22: true}}
	notifier := NewNotifier(sender, configRepo)

	delivered, total, err := notifier.NotifyAdmins(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if delivered != 2 || total != 3 {
		t.Errorf("Got delivered=%d total=%d, want 2/3", delivered, total)
	}
	if len(sender.sent) != 2 {
		t.Errorf("A failed recipient must be skipped, not retried: %v", sender.sent)
	}
}

func TestNotifyAdminsWithoutConfig(t *testing.T) {
	queue := newTestQueue(t)
	configRepo := db.NewStaffConfigRepository(queue)

	sender := &fakeSender{}
	notifier := NewNotifier(sender, configRepo)

	delivered, total, err := notifier.NotifyAdmins(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if delivered != 0 || total != 0 {
		t.Errorf("Got delivered=%d total=%d, want 0/0", delivered, total)
	}
	if len(sender.sent) != 0 {
		t.Error("Nothing should be sent without recipients")
	}
}
