package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/ad/go-telegram-shifts/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/xuri/excelize/v2"
)

type fakeDocumentSender struct {
	params *bot.SendDocumentParams
}

func (f *fakeDocumentSender) SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*tgmodels.Message, error) {
	f.params = params
	return &tgmodels.Message{}, nil
}

func seedSchedule(t *testing.T, queue *db.DBQueue) {
	t.Helper()

	waiterRepo := db.NewWaiterRepository(queue)
	shiftRepo := db.NewShiftRepository(queue)

	waiter, err := waiterRepo.GetOrCreateByTgID(100)
	if err != nil {
		t.Fatal(err)
	}
	if err := waiterRepo.SetName(100, "Анна"); err != nil {
		t.Fatal(err)
	}
	if err := shiftRepo.Upsert(&models.Shift{
		WaiterID: waiter.ID, Date: "2024-03-05", Hours: 8, Tasks: "бар, зал",
	}); err != nil {
		t.Fatal(err)
	}
}

func TestBuildWorkbook(t *testing.T) {
	queue := newTestQueue(t)
	seedSchedule(t, queue)

	em := NewExportManager(&fakeDocumentSender{}, db.NewShiftRepository(queue))

	buf, err := em.BuildWorkbook()
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("Workbook is not readable: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header plus one data row, got %d rows", len(rows))
	}
	if rows[0][0] != "Официант" || rows[0][1] != "Дата" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "Анна" || rows[1][1] != "2024-03-05" || rows[1][3] != "бар, зал" {
		t.Errorf("Unexpected data row: %v", rows[1])
	}
}

func TestBuildWorkbookEmptySchedule(t *testing.T) {
	queue := newTestQueue(t)

	em := NewExportManager(&fakeDocumentSender{}, db.NewShiftRepository(queue))

	buf, err := em.BuildWorkbook()
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected only the header row, got %d rows", len(rows))
	}
}

func TestSendScheduleUploadsXlsx(t *testing.T) {
	queue := newTestQueue(t)
	seedSchedule(t, queue)

	sender := &fakeDocumentSender{}
	em := NewExportManager(sender, db.NewShiftRepository(queue))

	if err := em.SendSchedule(context.Background(), 42); err != nil {
		t.Fatal(err)
	}
	if sender.params == nil {
		t.Fatal("No document was sent")
	}

	chatID, _ := sender.params.ChatID.(int64)
	if chatID != 42 {
		t.Errorf("Sent to chat %d, want 42", chatID)
	}

	upload, ok := sender.params.Document.(*tgmodels.InputFileUpload)
	if !ok {
		t.Fatalf("Expected an InputFileUpload, got %T", sender.params.Document)
	}
	if !strings.HasPrefix(upload.Filename, "schedule_") || !strings.HasSuffix(upload.Filename, ".xlsx") {
		t.Errorf("Unexpected filename %q", upload.Filename)
	}
	if _, err := excelize.OpenReader(upload.Data); err != nil {
		t.Errorf("Uploaded document is not a readable workbook: %v", err)
	}
}
