package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ad/go-telegram-shifts/internal/calendar"
	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/ad/go-telegram-shifts/internal/fsm"
	"github.com/ad/go-telegram-shifts/internal/services"
	"github.com/ad/go-telegram-shifts/internal/wizard"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// AdminHandler is the schedule-editing side of the bot: pick a waiter,
// pick a day on that waiter's calendar, enter hours and tasks. Also
// exports the whole schedule as a spreadsheet.
type AdminHandler struct {
	bot             BotSender
	auth            *services.StaffAuthMiddleware
	waiterRepo      *db.WaiterRepository
	shiftRepo       *db.ShiftRepository
	scheduleManager *services.ScheduleManager
	exportManager   *services.ExportManager
	sessions        *fsm.SessionStore
}

func NewAdminHandler(
	b BotSender,
	auth *services.StaffAuthMiddleware,
	waiterRepo *db.WaiterRepository,
	shiftRepo *db.ShiftRepository,
	scheduleManager *services.ScheduleManager,
	exportManager *services.ExportManager,
	sessions *fsm.SessionStore,
) *AdminHandler {
	return &AdminHandler{
		bot:             b,
		auth:            auth,
		waiterRepo:      waiterRepo,
		shiftRepo:       shiftRepo,
		scheduleManager: scheduleManager,
		exportManager:   exportManager,
		sessions:        sessions,
	}
}

func (h *AdminHandler) HandleCommand(ctx context.Context, msg *tgmodels.Message) bool {
	if !h.auth.IsAdmin(msg.From.ID) {
		return false
	}

	switch msg.Text {
	case "/admin":
		h.showMenu(ctx, msg.Chat.ID, 0)
		return true
	case "/export":
		h.handleExport(ctx, msg.From.ID, msg.Chat.ID)
		return true
	default:
		return false
	}
}

func (h *AdminHandler) HandleMessage(ctx context.Context, msg *tgmodels.Message) bool {
	if !h.auth.IsAdmin(msg.From.ID) {
		return false
	}

	sess := h.sessions.Get(msg.From.ID)
	if sess == nil || sess.Purpose != fsm.PurposeAdminShift || sess.State != fsm.StateAdminAwaitingShift {
		return false
	}

	shift, err := h.scheduleManager.SetShift(sess.WaiterID, sess.SelectedDate, msg.Text)
	if err != nil {
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Введите часы и задачи через точку с запятой, например: 8; бар, зал",
		})
		return true
	}

	sess.State = fsm.StateAdminChoosingDate
	sess.SelectedDate = ""
	h.sessions.Put(sess)

	h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   "✅ Смена обновлена:\n" + wizard.FormatShiftDetail(shift),
	})

	year, month := shiftYearMonth(shift.Date)
	h.showWaiterCalendar(ctx, msg.Chat.ID, 0, sess.WaiterID, year, month)
	return true
}

func (h *AdminHandler) HandleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) bool {
	data := callback.Data
	if !strings.HasPrefix(data, "adm_") {
		return false
	}
	if !h.auth.IsAdmin(callback.From.ID) {
		return true
	}

	h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	msg := callback.Message.Message
	if msg == nil {
		return true
	}
	chatID := msg.Chat.ID
	messageID := msg.ID
	userID := callback.From.ID

	switch {
	case data == "adm_menu":
		h.sessions.Clear(userID)
		h.showMenu(ctx, chatID, messageID)

	case data == "adm_cancel":
		h.sessions.Clear(userID)
		h.showMenu(ctx, chatID, messageID)

	case data == "adm_schedule":
		h.showWaiterPicker(ctx, chatID, messageID, userID)

	case data == "adm_export":
		h.handleExport(ctx, userID, chatID)

	case strings.HasPrefix(data, "adm_waiter:"):
		waiterID, err := strconv.ParseInt(strings.TrimPrefix(data, "adm_waiter:"), 10, 64)
		if err != nil {
			log.Printf("[ADMIN] Bad waiter id in %q: %v", data, err)
			return true
		}
		h.sessions.Put(&fsm.Session{
			UserID:   userID,
			Purpose:  fsm.PurposeAdminShift,
			State:    fsm.StateAdminChoosingDate,
			WaiterID: waiterID,
		})
		now := time.Now()
		h.showWaiterCalendar(ctx, chatID, messageID, waiterID, now.Year(), int(now.Month()))

	case strings.HasPrefix(data, "adm_prev:"), strings.HasPrefix(data, "adm_next:"):
		sess := h.sessions.Get(userID)
		if sess == nil || sess.Purpose != fsm.PurposeAdminShift {
			h.showMenu(ctx, chatID, messageID)
			return true
		}
		delta := 1
		payload := strings.TrimPrefix(data, "adm_next:")
		if strings.HasPrefix(data, "adm_prev:") {
			delta = -1
			payload = strings.TrimPrefix(data, "adm_prev:")
		}
		year, month, err := parseYearMonth(payload)
		if err != nil {
			log.Printf("[ADMIN] %v", err)
			return true
		}
		year, month = calendar.NormalizeMonth(year, month+delta)
		h.showWaiterCalendar(ctx, chatID, messageID, sess.WaiterID, year, month)

	case strings.HasPrefix(data, "adm_day:"):
		sess := h.sessions.Get(userID)
		if sess == nil || sess.Purpose != fsm.PurposeAdminShift || sess.State != fsm.StateAdminChoosingDate {
			h.showMenu(ctx, chatID, messageID)
			return true
		}
		date := strings.TrimPrefix(data, "adm_day:")
		sess.SelectedDate = date
		sess.State = fsm.StateAdminAwaitingShift
		h.sessions.Put(sess)

		text := fmt.Sprintf("Дата: %s", date)
		if shift, err := h.shiftRepo.Get(sess.WaiterID, date); err == nil {
			text += "\nСейчас: " + wizard.FormatShiftDetail(shift)
		}
		text += "\n\nВведите часы и задачи через точку с запятой, например: 8; бар, зал"

		_, err := h.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      text,
		})
		if err != nil {
			log.Printf("[ADMIN] Failed to edit day prompt: %v", err)
		}
	}

	return true
}

func (h *AdminHandler) showMenu(ctx context.Context, chatID int64, messageID int) {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: "📅 Графики работы", CallbackData: "adm_schedule"}},
			{{Text: "📊 Выгрузка в Excel", CallbackData: "adm_export"}},
		},
	}

	text := "Админ-панель:"

	if messageID > 0 {
		_, err := h.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
		if err != nil {
			log.Printf("[ADMIN] Failed to edit admin menu: %v", err)
		}
		return
	}

	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.Printf("[ADMIN] Failed to send admin menu: %v", err)
	}
}

func (h *AdminHandler) showWaiterPicker(ctx context.Context, chatID int64, messageID int, userID int64) {
	waiters, err := h.waiterRepo.GetAll()
	if err != nil {
		log.Printf("[ADMIN] Failed to list waiters: %v", err)
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   msgGenericError,
		})
		return
	}

	if len(waiters) == 0 {
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Пока ни один официант не зарегистрирован.",
		})
		return
	}

	h.sessions.Put(&fsm.Session{
		UserID:  userID,
		Purpose: fsm.PurposeAdminShift,
		State:   fsm.StateAdminChoosingWaiter,
	})

	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: make([][]tgmodels.InlineKeyboardButton, 0, len(waiters)+1),
	}
	for _, w := range waiters {
		name := w.Name
		if name == "" {
			name = fmt.Sprintf("Без имени (#%d)", w.ID)
		}
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
			{Text: name, CallbackData: fmt.Sprintf("adm_waiter:%d", w.ID)},
		})
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
		{Text: "← Назад", CallbackData: "adm_menu"},
	})

	text := "Выберите официанта:"

	if messageID > 0 {
		_, err = h.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
	} else {
		_, err = h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
	}
	if err != nil {
		log.Printf("[ADMIN] Failed to show waiter picker: %v", err)
	}
}

func (h *AdminHandler) showWaiterCalendar(ctx context.Context, chatID int64, messageID int, waiterID int64, year, month int) {
	marks, err := h.shiftRepo.DatesFor(waiterID)
	if err != nil {
		log.Printf("[ADMIN] Failed to load shifts for waiter %d: %v", waiterID, err)
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   msgGenericError,
		})
		return
	}

	grid := calendar.Render(year, month, marks)
	keyboard := calendarKeyboard(&grid, "adm")
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
		{Text: "← Назад", CallbackData: "adm_schedule"},
	})

	text := "График официанта (✓ — есть смена). Выберите день:"

	if messageID > 0 {
		_, err = h.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
	} else {
		_, err = h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
	}
	if err != nil {
		log.Printf("[ADMIN] Failed to show calendar: %v", err)
	}
}

func (h *AdminHandler) handleExport(ctx context.Context, userID, chatID int64) {
	log.Printf("[ADMIN] Export requested by %d", userID)
	if err := h.exportManager.SendSchedule(ctx, chatID); err != nil {
		log.Printf("[ADMIN] Export failed: %v", err)
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Не удалось сформировать выгрузку.",
		})
	}
}

// shiftYearMonth extracts the calendar position of a YYYY-MM-DD date,
// falling back to the current month on malformed input.
func shiftYearMonth(date string) (int, int) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		now := time.Now()
		return now.Year(), int(now.Month())
	}
	return t.Year(), int(t.Month())
}
