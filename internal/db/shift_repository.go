package db

import (
	"database/sql"

	"github.com/ad/go-telegram-shifts/internal/models"
)

type ShiftRepository struct {
	queue *DBQueue
}

func NewShiftRepository(queue *DBQueue) *ShiftRepository {
	return &ShiftRepository{queue: queue}
}

// DatesFor returns the set of dates the waiter has shifts on, used to
// mark the calendar grid.
func (r *ShiftRepository) DatesFor(waiterID int64) (map[string]bool, error) {
	rows, err := r.queue.DB().Query(`
		SELECT date FROM shifts WHERE waiter_id = ?
	`, waiterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[string]bool)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates[date] = true
	}
	return dates, rows.Err()
}

// Get returns the shift for one day, or sql.ErrNoRows when the day is
// not scheduled.
func (r *ShiftRepository) Get(waiterID int64, date string) (*models.Shift, error) {
	row := r.queue.DB().QueryRow(`
		SELECT id, waiter_id, date, COALESCE(hours, 0), COALESCE(tasks, '')
		FROM shifts WHERE waiter_id = ? AND date = ?
	`, waiterID, date)

	var shift models.Shift
	err := row.Scan(&shift.ID, &shift.WaiterID, &shift.Date, &shift.Hours, &shift.Tasks)
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *ShiftRepository) Upsert(shift *models.Shift) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO shifts (waiter_id, date, hours, tasks)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(waiter_id, date) DO UPDATE SET
				hours = excluded.hours,
				tasks = excluded.tasks
		`, shift.WaiterID, shift.Date, shift.Hours, shift.Tasks)
		return nil, err
	})
	return err
}

func (r *ShiftRepository) Delete(waiterID int64, date string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`DELETE FROM shifts WHERE waiter_id = ? AND date = ?`, waiterID, date)
		return nil, err
	})
	return err
}

// All returns every shift joined with the waiter's name, ordered by
// date, for the schedule export.
func (r *ShiftRepository) All() ([]*models.ShiftRow, error) {
	rows, err := r.queue.DB().Query(`
		SELECT s.waiter_id, COALESCE(w.name, ''), s.date, COALESCE(s.hours, 0), COALESCE(s.tasks, '')
		FROM shifts s
		JOIN waiters w ON s.waiter_id = w.id
		ORDER BY s.date, w.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.ShiftRow
	for rows.Next() {
		var row models.ShiftRow
		if err := rows.Scan(&row.WaiterID, &row.WaiterName, &row.Date, &row.Hours, &row.Tasks); err != nil {
			return nil, err
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}
