package handlers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "modernc.org/sqlite"
)

// fakeBot records every outgoing call so tests can assert on what the
// user would see.
type fakeBot struct {
	sent     []*bot.SendMessageParams
	edited   []*bot.EditMessageTextParams
	docs     []*bot.SendDocumentParams
	answered int
}

func (f *fakeBot) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	f.sent = append(f.sent, params)
	return &tgmodels.Message{ID: len(f.sent)}, nil
}

func (f *fakeBot) EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*tgmodels.Message, error) {
	f.edited = append(f.edited, params)
	return &tgmodels.Message{ID: params.MessageID}, nil
}

func (f *fakeBot) DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error) {
	return true, nil
}

func (f *fakeBot) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.answered++
	return true, nil
}

func (f *fakeBot) SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*tgmodels.Message, error) {
	f.docs = append(f.docs, params)
	return &tgmodels.Message{}, nil
}

func (f *fakeBot) lastSentText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("No messages were sent")
	}
	return f.sent[len(f.sent)-1].Text
}

func (f *fakeBot) lastEdited(t *testing.T) *bot.EditMessageTextParams {
	t.Helper()
	if len(f.edited) == 0 {
		t.Fatal("No messages were edited")
	}
	return f.edited[len(f.edited)-1]
}

type fakeNotifier struct {
	sent      []string
	delivered int
	total     int
}

func (f *fakeNotifier) NotifyAdmins(ctx context.Context, text string) (int, int, error) {
	f.sent = append(f.sent, text)
	return f.delivered, f.total, nil
}

func newHandlerTestQueue(t *testing.T) *db.DBQueue {
	t.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// One connection, or each pooled connection would get its own
	// empty in-memory database.
	testDB.SetMaxOpenConns(1)

	if err := db.InitSchema(testDB); err != nil {
		t.Fatal(err)
	}

	queue := db.NewDBQueueForTest(testDB)
	t.Cleanup(func() {
		queue.Close()
		testDB.Close()
	})
	return queue
}

func newMessage(userID int64, text string) *tgmodels.Message {
	return &tgmodels.Message{
		Text: text,
		From: &tgmodels.User{ID: userID, FirstName: "Анна", Username: "anna"},
		Chat: tgmodels.Chat{ID: userID},
	}
}

func newCallback(userID int64, data string, messageID int) *tgmodels.CallbackQuery {
	return &tgmodels.CallbackQuery{
		ID:   "test-callback",
		From: tgmodels.User{ID: userID, FirstName: "Анна", Username: "anna"},
		Data: data,
		Message: tgmodels.MaybeInaccessibleMessage{
			Message: &tgmodels.Message{
				ID:   messageID,
				Chat: tgmodels.Chat{ID: userID},
			},
		},
	}
}

func keyboardOf(t *testing.T, markup tgmodels.ReplyMarkup) *tgmodels.InlineKeyboardMarkup {
	t.Helper()
	keyboard, ok := markup.(*tgmodels.InlineKeyboardMarkup)
	if !ok || keyboard == nil {
		t.Fatalf("Expected an inline keyboard, got %T", markup)
	}
	return keyboard
}

func hasButtonWithPrefix(keyboard *tgmodels.InlineKeyboardMarkup, prefix string) bool {
	for _, row := range keyboard.InlineKeyboard {
		for _, btn := range row {
			if len(btn.CallbackData) >= len(prefix) && btn.CallbackData[:len(prefix)] == prefix {
				return true
			}
		}
	}
	return false
}
