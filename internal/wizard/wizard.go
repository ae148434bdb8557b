package wizard

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/ad/go-telegram-shifts/internal/calendar"
	"github.com/ad/go-telegram-shifts/internal/fsm"
	"github.com/ad/go-telegram-shifts/internal/models"
)

// ShiftSource reads a waiter's schedule.
type ShiftSource interface {
	DatesFor(waiterID int64) (map[string]bool, error)
	Get(waiterID int64, date string) (*models.Shift, error)
}

// TipStore persists tip amounts, one row per (waiter, date).
type TipStore interface {
	Upsert(waiterID int64, date string, amountKopecks int64) error
	SumMonth(waiterID int64, ym string) (int64, error)
	ClearMonth(waiterID int64, ym string) error
}

// AdminNotifier broadcasts a message to every configured admin and
// reports how many deliveries succeeded out of how many were attempted.
// The error covers only failure to resolve the recipient list, not
// individual deliveries.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, text string) (delivered, total int, err error)
}

// Offer names the affordance the transport should attach to a message.
type Offer int

const (
	OfferNone Offer = iota
	OfferMenu
	OfferConfirm
	OfferClearMonth
)

// Instruction tells the transport what to show next. Grid == nil means
// a plain message; otherwise the grid is rendered as an inline calendar
// with Text as its caption. Button layout and edit-vs-send stay with
// the transport.
type Instruction struct {
	Text    string
	Grid    *calendar.Grid
	Offer   Offer
	ClearYM string // month to clear, set with OfferClearMonth
}

// User identifies the person driving the wizard.
type User struct {
	TgID     int64
	WaiterID int64
	Name     string
	Username string
}

// Engine is the waiter-side wizard: one linear flow per purpose,
// advancing one step per user action. Sessions are ephemeral.
type Engine struct {
	sessions *fsm.SessionStore
	shifts   ShiftSource
	tips     TipStore
	notifier AdminNotifier
	now      func() time.Time
}

func NewEngine(sessions *fsm.SessionStore, shifts ShiftSource, tips TipStore, notifier AdminNotifier) *Engine {
	return &Engine{
		sessions: sessions,
		shifts:   shifts,
		tips:     tips,
		notifier: notifier,
		now:      time.Now,
	}
}

const (
	captionCalendar = "Ваш календарь:"
	captionForecast = "Выберите дату для прогноза:"

	msgNoShift      = "Нет смен."
	msgBadAmount    = "Введите корректное число, например 1234.50"
	msgTipsCleared  = "Чаевые сброшены."
	msgCancelled    = "Отменено."
	msgStaleSession = "Сессия устарела, откройте меню заново."
	msgSentOK       = "Спасибо! Отправлено админам."
	msgSendFailed   = "Не удалось отправить прогноз. Попробуйте позже."
	msgNoRecipients = "Прогноз некому отправить: администраторы не настроены."
)

// EnterFlow starts (or restarts) a flow; an abandoned session of the
// same user is overwritten.
func (e *Engine) EnterFlow(u User, purpose string) (Instruction, error) {
	nowY, nowM := e.now().Year(), int(e.now().Month())

	switch purpose {
	case fsm.PurposeForecast:
		e.sessions.Put(&fsm.Session{
			UserID:   u.TgID,
			Purpose:  fsm.PurposeForecast,
			State:    fsm.StateChoosingDate,
			WaiterID: u.WaiterID,
		})
		grid := calendar.Render(nowY, nowM, nil)
		return Instruction{Text: captionForecast, Grid: &grid}, nil

	case fsm.PurposeTipEntry:
		today := e.now().Format("2006-01-02")
		e.sessions.Put(&fsm.Session{
			UserID:       u.TgID,
			Purpose:      fsm.PurposeTipEntry,
			State:        fsm.StateAwaitingAmount,
			SelectedDate: today,
			WaiterID:     u.WaiterID,
		})
		return Instruction{Text: fmt.Sprintf("Введите сумму чаевых за %s (руб):", today)}, nil

	default: // fsm.PurposeViewShifts
		marks, err := e.shifts.DatesFor(u.WaiterID)
		if err != nil {
			return Instruction{}, fmt.Errorf("failed to load shift dates: %w", err)
		}
		e.sessions.Put(&fsm.Session{
			UserID:   u.TgID,
			Purpose:  fsm.PurposeViewShifts,
			State:    fsm.StateShowingMonth,
			WaiterID: u.WaiterID,
		})
		grid := calendar.Render(nowY, nowM, marks)
		return Instruction{Text: captionCalendar, Grid: &grid}, nil
	}
}

// MonthNav re-renders the calendar for the month delta steps away from
// the displayed (year, month). Purpose and state stay as they are; a
// missing session (stale calendar after a restart) falls back to the
// shift view.
func (e *Engine) MonthNav(u User, year, month, delta int) (Instruction, error) {
	year, month = calendar.NormalizeMonth(year, month+delta)

	sess := e.sessions.Get(u.TgID)
	if sess != nil && sess.Purpose == fsm.PurposeForecast {
		grid := calendar.Render(year, month, nil)
		return Instruction{Text: captionForecast, Grid: &grid}, nil
	}

	marks, err := e.shifts.DatesFor(u.WaiterID)
	if err != nil {
		return Instruction{}, fmt.Errorf("failed to load shift dates: %w", err)
	}
	if sess == nil {
		e.sessions.Put(&fsm.Session{
			UserID:   u.TgID,
			Purpose:  fsm.PurposeViewShifts,
			State:    fsm.StateShowingMonth,
			WaiterID: u.WaiterID,
		})
	}
	grid := calendar.Render(year, month, marks)
	return Instruction{Text: captionCalendar, Grid: &grid}, nil
}

// DayPicked advances the flow that is waiting for a date. Outside the
// forecast flow a tapped day is a read-only lookup that ends the flow.
func (e *Engine) DayPicked(u User, date string) (Instruction, error) {
	sess := e.sessions.Get(u.TgID)

	if sess != nil && sess.Purpose == fsm.PurposeForecast && sess.State == fsm.StateChoosingDate {
		sess.SelectedDate = date
		sess.State = fsm.StateConfirming
		e.sessions.Put(sess)
		return Instruction{
			Text:  fmt.Sprintf("Дата: %s\nСможете выйти?", date),
			Offer: OfferConfirm,
		}, nil
	}

	shift, err := e.shifts.Get(u.WaiterID, date)
	if err == sql.ErrNoRows {
		e.sessions.Clear(u.TgID)
		return Instruction{Text: msgNoShift, Offer: OfferMenu}, nil
	}
	if err != nil {
		return Instruction{}, fmt.Errorf("failed to load shift: %w", err)
	}

	e.sessions.Clear(u.TgID)
	return Instruction{Text: FormatShiftDetail(shift), Offer: OfferMenu}, nil
}

// Confirm resolves the forecast yes/no step. Admins are notified
// fire-and-forget; the session resets regardless of delivery outcome,
// and partial delivery is reported as degraded success.
func (e *Engine) Confirm(ctx context.Context, u User, yes bool) (Instruction, error) {
	sess := e.sessions.Get(u.TgID)
	if sess == nil || sess.Purpose != fsm.PurposeForecast || sess.State != fsm.StateConfirming {
		return Instruction{Text: msgStaleSession, Offer: OfferMenu}, nil
	}

	date := sess.SelectedDate
	e.sessions.Clear(u.TgID)

	mark := "✅ Смогу"
	if !yes {
		mark = "❌ Не смогу"
	}
	text := fmt.Sprintf("📣 Прогноз:\nОфициант: %s (@%s)\nДата: %s\n%s", u.Name, u.Username, date, mark)

	delivered, total, err := e.notifier.NotifyAdmins(ctx, text)
	if err != nil {
		return Instruction{}, fmt.Errorf("failed to notify admins: %w", err)
	}
	switch {
	case total == 0:
		return Instruction{Text: msgNoRecipients, Offer: OfferMenu}, nil
	case delivered == total:
		return Instruction{Text: msgSentOK, Offer: OfferMenu}, nil
	case delivered > 0:
		return Instruction{
			Text:  fmt.Sprintf("Прогноз отправлен %d из %d админов.", delivered, total),
			Offer: OfferMenu,
		}, nil
	default:
		return Instruction{Text: msgSendFailed, Offer: OfferMenu}, nil
	}
}

// TextInput feeds free text into the tip entry step. The second return
// value is false when no wizard is waiting for text, so the transport
// can route the message elsewhere. A bad amount re-prompts without
// touching state or storage.
func (e *Engine) TextInput(u User, raw string) (Instruction, bool, error) {
	sess := e.sessions.Get(u.TgID)
	if sess == nil || sess.Purpose != fsm.PurposeTipEntry || sess.State != fsm.StateAwaitingAmount {
		return Instruction{}, false, nil
	}

	kopecks, err := ParseAmount(raw)
	if err != nil {
		return Instruction{Text: msgBadAmount}, true, nil
	}

	date := sess.SelectedDate
	if err := e.tips.Upsert(sess.WaiterID, date, kopecks); err != nil {
		return Instruction{}, true, fmt.Errorf("failed to store tip: %w", err)
	}

	ym := date[:7]
	total, err := e.tips.SumMonth(sess.WaiterID, ym)
	if err != nil {
		return Instruction{}, true, fmt.Errorf("failed to sum tips: %w", err)
	}

	e.sessions.Clear(u.TgID)
	return Instruction{
		Text:    fmt.Sprintf("Записано %s ₽.\nВсего за %s: %s ₽", FormatAmount(kopecks), ym, FormatAmount(total)),
		Offer:   OfferClearMonth,
		ClearYM: ym,
	}, true, nil
}

// ClearMonth drops every tip of the month in one operation.
func (e *Engine) ClearMonth(u User, ym string) (Instruction, error) {
	if err := e.tips.ClearMonth(u.WaiterID, ym); err != nil {
		return Instruction{}, fmt.Errorf("failed to clear tips: %w", err)
	}
	return Instruction{Text: msgTipsCleared, Offer: OfferMenu}, nil
}

// Cancel tears the session down immediately; nothing was committed in
// any non-terminal state, so there is nothing to roll back.
func (e *Engine) Cancel(u User) Instruction {
	e.sessions.Clear(u.TgID)
	return Instruction{Text: msgCancelled, Offer: OfferMenu}
}

// FormatShiftDetail renders one scheduled day as date / hours / tasks,
// with a dash when no task list was filled in.
func FormatShiftDetail(shift *models.Shift) string {
	tasks := shift.Tasks
	if tasks == "" {
		tasks = "—"
	}
	hours := strconv.FormatFloat(shift.Hours, 'f', -1, 64)
	return fmt.Sprintf("📅 %s\n⏱️ %s ч\n📋 %s", shift.Date, hours, tasks)
}
