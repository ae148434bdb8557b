package models

// Tip holds the tips a waiter logged for one day.
// Amount is kept in kopecks so that currency survives storage exactly;
// at most one row exists per (waiter, date), later writes overwrite.
type Tip struct {
	ID            int64
	WaiterID      int64
	Date          string // YYYY-MM-DD
	AmountKopecks int64
}
