package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-shifts/internal/calendar"
	tgmodels "github.com/go-telegram/bot/models"
)

var weekdayRow = []string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// calendarKeyboard turns a rendered grid into an inline keyboard.
// prefix distinguishes the waiter and admin calendars ("cal" / "adm"),
// so each side routes its own taps. Navigation buttons carry the
// displayed (year, month); the handler applies the direction.
func calendarKeyboard(grid *calendar.Grid, prefix string) *tgmodels.InlineKeyboardMarkup {
	ym := strconv.Itoa(grid.Year) + ":" + strconv.Itoa(grid.Month)

	keyboard := [][]tgmodels.InlineKeyboardButton{
		{
			{Text: "‹", CallbackData: prefix + "_prev:" + ym},
			{Text: calendar.MonthCaption(grid.Year, grid.Month), CallbackData: "ignore"},
			{Text: "›", CallbackData: prefix + "_next:" + ym},
		},
	}

	dayNames := make([]tgmodels.InlineKeyboardButton, 0, 7)
	for _, d := range weekdayRow {
		dayNames = append(dayNames, tgmodels.InlineKeyboardButton{Text: d, CallbackData: "ignore"})
	}
	keyboard = append(keyboard, dayNames)

	for _, week := range grid.Weeks {
		row := make([]tgmodels.InlineKeyboardButton, 0, 7)
		for _, cell := range week {
			if cell.Day == 0 {
				row = append(row, tgmodels.InlineKeyboardButton{Text: " ", CallbackData: "ignore"})
				continue
			}
			text := strconv.Itoa(cell.Day)
			if cell.Marked {
				text += "✓"
			}
			row = append(row, tgmodels.InlineKeyboardButton{
				Text:         text,
				CallbackData: prefix + "_day:" + cell.Date,
			})
		}
		keyboard = append(keyboard, row)
	}

	keyboard = append(keyboard, []tgmodels.InlineKeyboardButton{
		{Text: "❌ Отмена", CallbackData: prefix + "_cancel"},
	})

	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// parseYearMonth extracts (year, month) from a "2024:3" payload.
func parseYearMonth(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed navigation data %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed navigation data %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed navigation data %q", s)
	}
	return year, month, nil
}
