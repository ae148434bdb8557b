package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-shifts/internal/db"
	"github.com/ad/go-telegram-shifts/internal/models"
)

// ScheduleManager applies admin edits to the shift schedule.
type ScheduleManager struct {
	shiftRepo *db.ShiftRepository
}

func NewScheduleManager(shiftRepo *db.ShiftRepository) *ScheduleManager {
	return &ScheduleManager{shiftRepo: shiftRepo}
}

// ParseShiftInput parses the admin's "hours; task list" line, e.g.
// "8; бар, зал" or just "7.5". Comma and period both work as the
// decimal separator of the hours part.
func ParseShiftInput(raw string) (hours float64, tasks string, err error) {
	hoursPart := strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		hoursPart = strings.TrimSpace(raw[:i])
		tasks = strings.TrimSpace(raw[i+1:])
	}

	hours, err = strconv.ParseFloat(strings.ReplaceAll(hoursPart, ",", "."), 64)
	if err != nil || hours < 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return 0, "", fmt.Errorf("invalid hours %q", hoursPart)
	}
	return hours, tasks, nil
}

// SetShift upserts the shift for one (waiter, day) from raw admin input.
func (sm *ScheduleManager) SetShift(waiterID int64, date, raw string) (*models.Shift, error) {
	hours, tasks, err := ParseShiftInput(raw)
	if err != nil {
		return nil, err
	}

	shift := &models.Shift{
		WaiterID: waiterID,
		Date:     date,
		Hours:    hours,
		Tasks:    tasks,
	}
	if err := sm.shiftRepo.Upsert(shift); err != nil {
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}
	return shift, nil
}

func (sm *ScheduleManager) RemoveShift(waiterID int64, date string) error {
	return sm.shiftRepo.Delete(waiterID, date)
}
