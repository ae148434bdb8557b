package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/xuri/excelize/v2"
)

// DocumentSender is the slice of the bot API the exporter needs.
type DocumentSender interface {
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*tgmodels.Message, error)
}

// ExportManager builds the full schedule as an .xlsx workbook and
// uploads it to the requesting admin.
type ExportManager struct {
	sender    DocumentSender
	shiftRepo *db.ShiftRepository
}

func NewExportManager(sender DocumentSender, shiftRepo *db.ShiftRepository) *ExportManager {
	return &ExportManager{
		sender:    sender,
		shiftRepo: shiftRepo,
	}
}

var exportHeaders = []string{"Официант", "Дата", "Часы", "Задачи"}

// BuildWorkbook renders every shift as one spreadsheet row, ordered by
// date then waiter name.
func (em *ExportManager) BuildWorkbook() (*bytes.Buffer, error) {
	rows, err := em.shiftRepo.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for idx, row := range rows {
		name := row.WaiterName
		if name == "" {
			name = fmt.Sprintf("#%d", row.WaiterID)
		}
		values := []interface{}{name, row.Date, row.Hours, row.Tasks}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, idx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// SendSchedule builds the workbook and sends it as a document.
func (em *ExportManager) SendSchedule(ctx context.Context, chatID int64) error {
	buf, err := em.BuildWorkbook()
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", time.Now().Format("2006-01-02"))
	_, err = em.sender.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &tgmodels.InputFileUpload{
			Filename: filename,
			Data:     buf,
		},
		Caption: fmt.Sprintf("📊 График работы на %s", time.Now().Format("2006-01-02 15:04")),
	})
	if err != nil {
		return fmt.Errorf("failed to send schedule: %w", err)
	}
	return nil
}
