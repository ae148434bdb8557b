package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/ad/go-telegram-shifts/internal/fsm"
	"github.com/ad/go-telegram-shifts/internal/wizard"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// BotSender is the slice of the bot API the handlers drive. The real
// *bot.Bot satisfies it; tests substitute a fake.
type BotSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*tgmodels.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// WaiterHandler drives the waiter wizard: shift calendar, availability
// forecast and tip entry. It translates wizard instructions into
// keyboards and messages; all flow logic lives in the engine.
type WaiterHandler struct {
	bot        BotSender
	waiterRepo *db.WaiterRepository
	engine     *wizard.Engine
	sessions   *fsm.SessionStore
}

func NewWaiterHandler(
	b BotSender,
	waiterRepo *db.WaiterRepository,
	engine *wizard.Engine,
	sessions *fsm.SessionStore,
) *WaiterHandler {
	return &WaiterHandler{
		bot:        b,
		waiterRepo: waiterRepo,
		engine:     engine,
		sessions:   sessions,
	}
}

const msgGenericError = "❌ Произошла ошибка. Попробуйте позже."

func (h *WaiterHandler) HandleCommand(ctx context.Context, msg *tgmodels.Message) bool {
	switch msg.Text {
	case "/start", "/menu":
		h.startOrMenu(ctx, msg)
		return true
	case "/cancel":
		user, err := h.resolveUser(msg.From)
		if err != nil {
			log.Printf("[WAITER] Failed to resolve user %d: %v", msg.From.ID, err)
			return true
		}
		h.engine.Cancel(user)
		h.showMenu(ctx, msg.Chat.ID, 0)
		return true
	default:
		return false
	}
}

func (h *WaiterHandler) HandleMessage(ctx context.Context, msg *tgmodels.Message) bool {
	sess := h.sessions.Get(msg.From.ID)
	if sess != nil && sess.Purpose == fsm.PurposeRegistration && sess.State == fsm.StateAwaitingName {
		h.handleNameInput(ctx, msg)
		return true
	}

	user, err := h.resolveUser(msg.From)
	if err != nil {
		log.Printf("[WAITER] Failed to resolve user %d: %v", msg.From.ID, err)
		return false
	}

	instr, handled, err := h.engine.TextInput(user, msg.Text)
	if !handled {
		return false
	}
	if err != nil {
		log.Printf("[WAITER] Text input failed for user %d: %v", msg.From.ID, err)
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   msgGenericError,
		})
		return true
	}

	h.render(ctx, msg.Chat.ID, 0, instr)
	return true
}

func (h *WaiterHandler) HandleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) bool {
	data := callback.Data
	if !h.ownsCallback(data) {
		return false
	}

	h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	if data == "ignore" {
		return true
	}

	msg := callback.Message.Message
	if msg == nil {
		return true
	}
	chatID := msg.Chat.ID
	messageID := msg.ID

	user, err := h.resolveUser(&callback.From)
	if err != nil {
		log.Printf("[WAITER] Failed to resolve user %d: %v", callback.From.ID, err)
		return true
	}

	var instr wizard.Instruction
	switch {
	case data == "w_menu":
		h.showMenu(ctx, chatID, messageID)
		return true
	case data == "w_calendar":
		instr, err = h.engine.EnterFlow(user, fsm.PurposeViewShifts)
	case data == "forecast_start":
		instr, err = h.engine.EnterFlow(user, fsm.PurposeForecast)
	case data == "tips_start":
		instr, err = h.engine.EnterFlow(user, fsm.PurposeTipEntry)
	case data == "forecast_yes", data == "forecast_no":
		instr, err = h.engine.Confirm(ctx, user, data == "forecast_yes")
	case data == "cal_cancel":
		instr = h.engine.Cancel(user)
	case strings.HasPrefix(data, "cal_day:"):
		instr, err = h.engine.DayPicked(user, strings.TrimPrefix(data, "cal_day:"))
	case strings.HasPrefix(data, "cal_prev:"), strings.HasPrefix(data, "cal_next:"):
		delta := 1
		payload := strings.TrimPrefix(data, "cal_next:")
		if strings.HasPrefix(data, "cal_prev:") {
			delta = -1
			payload = strings.TrimPrefix(data, "cal_prev:")
		}
		var year, month int
		year, month, err = parseYearMonth(payload)
		if err == nil {
			instr, err = h.engine.MonthNav(user, year, month, delta)
		}
	case strings.HasPrefix(data, "tips_clear:"):
		instr, err = h.engine.ClearMonth(user, strings.TrimPrefix(data, "tips_clear:"))
	default:
		return true
	}

	if err != nil {
		log.Printf("[WAITER] Callback %q failed for user %d: %v", data, callback.From.ID, err)
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   msgGenericError,
		})
		return true
	}

	h.render(ctx, chatID, messageID, instr)
	return true
}

func (h *WaiterHandler) ownsCallback(data string) bool {
	switch data {
	case "ignore", "w_menu", "w_calendar", "forecast_start", "tips_start",
		"forecast_yes", "forecast_no", "cal_cancel":
		return true
	}
	return strings.HasPrefix(data, "cal_day:") ||
		strings.HasPrefix(data, "cal_prev:") ||
		strings.HasPrefix(data, "cal_next:") ||
		strings.HasPrefix(data, "tips_clear:")
}

// render shows a wizard instruction, editing the originating message
// when there is one and sending a fresh message otherwise.
func (h *WaiterHandler) render(ctx context.Context, chatID int64, messageID int, instr wizard.Instruction) {
	var keyboard *tgmodels.InlineKeyboardMarkup

	if instr.Grid != nil {
		keyboard = calendarKeyboard(instr.Grid, "cal")
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []tgmodels.InlineKeyboardButton{
			{Text: "⏪ В меню", CallbackData: "w_menu"},
		})
	} else {
		switch instr.Offer {
		case wizard.OfferConfirm:
			keyboard = &tgmodels.InlineKeyboardMarkup{
				InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
					{{Text: "✅ Смогу", CallbackData: "forecast_yes"}},
					{{Text: "❌ Не смогу", CallbackData: "forecast_no"}},
				},
			}
		case wizard.OfferClearMonth:
			keyboard = &tgmodels.InlineKeyboardMarkup{
				InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
					{{Text: "🧹 Обнулить чаевые за месяц", CallbackData: "tips_clear:" + instr.ClearYM}},
					{{Text: "⏪ В меню", CallbackData: "w_menu"}},
				},
			}
		case wizard.OfferMenu:
			keyboard = &tgmodels.InlineKeyboardMarkup{
				InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
					{{Text: "⏪ В меню", CallbackData: "w_menu"}},
				},
			}
		}
	}

	if messageID > 0 {
		_, err := h.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        instr.Text,
			ReplyMarkup: keyboard,
		})
		if err == nil {
			return
		}
		log.Printf("[WAITER] Failed to edit message: %v", err)
	}

	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        instr.Text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.Printf("[WAITER] Failed to send message: %v", err)
	}
}

func (h *WaiterHandler) showMenu(ctx context.Context, chatID int64, messageID int) {
	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: "📆 Просмотреть график работы", CallbackData: "w_calendar"}},
			{{Text: "📅 Прогнозировать график работы", CallbackData: "forecast_start"}},
			{{Text: "💵 Подсчёт чаевых", CallbackData: "tips_start"}},
		},
	}

	text := "Меню официанта:"

	if messageID > 0 {
		_, err := h.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard,
		})
		if err != nil {
			log.Printf("[WAITER] Failed to edit menu: %v", err)
		}
		return
	}

	_, err := h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.Printf("[WAITER] Failed to send menu: %v", err)
	}
}

// startOrMenu registers first-time users: until a display name is
// stored the menu is withheld and the name is asked for.
func (h *WaiterHandler) startOrMenu(ctx context.Context, msg *tgmodels.Message) {
	waiter, err := h.waiterRepo.GetOrCreateByTgID(msg.From.ID)
	if err != nil {
		log.Printf("[WAITER] Failed to register user %d: %v", msg.From.ID, err)
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   msgGenericError,
		})
		return
	}

	if waiter.Name == "" {
		h.sessions.Put(&fsm.Session{
			UserID:   msg.From.ID,
			Purpose:  fsm.PurposeRegistration,
			State:    fsm.StateAwaitingName,
			WaiterID: waiter.ID,
		})
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Введите своё имя для календаря:",
		})
		return
	}

	h.showMenu(ctx, msg.Chat.ID, 0)
}

func (h *WaiterHandler) handleNameInput(ctx context.Context, msg *tgmodels.Message) {
	name := strings.TrimSpace(msg.Text)
	if name == "" {
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Введите своё имя для календаря:",
		})
		return
	}

	if err := h.waiterRepo.SetName(msg.From.ID, name); err != nil {
		log.Printf("[WAITER] Failed to save name for user %d: %v", msg.From.ID, err)
		h.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   msgGenericError,
		})
		return
	}

	h.sessions.Clear(msg.From.ID)
	h.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   "Спасибо, " + name + "!",
	})
	h.showMenu(ctx, msg.Chat.ID, 0)
}

func (h *WaiterHandler) resolveUser(from *tgmodels.User) (wizard.User, error) {
	waiter, err := h.waiterRepo.GetOrCreateByTgID(from.ID)
	if err != nil {
		return wizard.User{}, err
	}

	name := waiter.Name
	if name == "" {
		name = strings.TrimSpace(from.FirstName + " " + from.LastName)
	}

	return wizard.User{
		TgID:     from.ID,
		WaiterID: waiter.ID,
		Name:     name,
		Username: from.Username,
	}, nil
}
