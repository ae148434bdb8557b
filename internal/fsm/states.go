package fsm

// FSM states for the bot.
//
// Waiter flows (one linear wizard per purpose, idle = no session):
//
// View Shifts Flow:
//   idle -> StateShowingMonth (via calendar button)
//   StateShowingMonth -> StateShowingMonth (via month navigation)
//   StateShowingMonth -> idle (via day tap, shows the shift and resets)
//
// Forecast Flow:
//   idle -> StateChoosingDate (via forecast button)
//   StateChoosingDate -> StateChoosingDate (via month navigation)
//   StateChoosingDate -> StateConfirming (via day tap)
//   StateConfirming -> idle (via yes/no, admins are notified)
//
// Tip Entry Flow:
//   idle -> StateAwaitingAmount (via tips button, seeded with today)
//   StateAwaitingAmount -> StateAwaitingAmount (via invalid amount, re-prompt)
//   StateAwaitingAmount -> idle (via valid amount, tip is stored)
//
// Admin Schedule Flow:
//   idle -> StateAdminChoosingWaiter (via schedule button)
//   StateAdminChoosingWaiter -> StateAdminChoosingDate (via waiter selection)
//   StateAdminChoosingDate -> StateAdminChoosingDate (via month navigation)
//   StateAdminChoosingDate -> StateAdminAwaitingShift (via day tap)
//   StateAdminAwaitingShift -> StateAdminChoosingDate (via hours/tasks input)
//
// Cancel, any flow:
//   any state -> idle (via /cancel or the cancel button, nothing is committed)

const (
	PurposeViewShifts   = "view_shifts"
	PurposeForecast     = "forecast"
	PurposeTipEntry     = "tip_entry"
	PurposeAdminShift   = "admin_shift"
	PurposeRegistration = "registration"

	StateShowingMonth   = "view_showing_month"
	StateChoosingDate   = "forecast_choosing_date"
	StateConfirming     = "forecast_confirming"
	StateAwaitingAmount = "tips_awaiting_amount"

	StateAdminChoosingWaiter = "admin_choosing_waiter"
	StateAdminChoosingDate   = "admin_choosing_date"
	StateAdminAwaitingShift  = "admin_awaiting_shift"

	StateAwaitingName = "reg_awaiting_name"
)
