package calendar

import (
	"fmt"
	"time"
)

// Cell is one slot of the month grid. Day == 0 marks a padding cell
// outside the month; real cells carry the ISO date and whether a
// record exists for that day.
type Cell struct {
	Day    int
	Date   string // YYYY-MM-DD, empty for padding cells
	Marked bool
}

// Grid is a rendered month: week rows of exactly seven cells,
// Monday first. Derived data, never persisted.
type Grid struct {
	Year  int
	Month int
	Weeks [][7]Cell
}

// Render builds the grid for an already-normalized (year, month).
// marked is a set of YYYY-MM-DD strings to tick. No side effects,
// safe to call repeatedly.
func Render(year, month int, marked map[string]bool) Grid {
	grid := Grid{Year: year, Month: month}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Monday-first column of the 1st: Monday=0 ... Sunday=6.
	offset := (int(first.Weekday()) + 6) % 7

	var week [7]Cell
	col := offset
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		week[col] = Cell{Day: day, Date: date, Marked: marked[date]}
		col++
		if col == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = [7]Cell{}
			col = 0
		}
	}
	if col > 0 {
		grid.Weeks = append(grid.Weeks, week)
	}

	return grid
}

// NormalizeMonth wraps month overflow into the year: (y, 0) becomes
// (y-1, 12) and (y, 13) becomes (y+1, 1). Every navigation handler
// must go through here instead of re-deriving the arithmetic.
func NormalizeMonth(year, month int) (int, int) {
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	return year, month
}

// MonthCaption is the header text of the grid, e.g. "March 2024".
func MonthCaption(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month), year)
}
