package models

// Shift is one scheduled working day of a waiter.
// Hours and Tasks default to 0 and "" for a day that was added
// to the schedule but not filled in yet.
type Shift struct {
	ID       int64
	WaiterID int64
	Date     string // YYYY-MM-DD
	Hours    float64
	Tasks    string
}

// ShiftRow is a shift joined with its waiter's name, as used by the
// schedule export.
type ShiftRow struct {
	WaiterID   int64
	WaiterName string
	Date       string
	Hours      float64
	Tasks      string
}
