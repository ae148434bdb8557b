package db

import "database/sql"

type TipRepository struct {
	queue *DBQueue
}

func NewTipRepository(queue *DBQueue) *TipRepository {
	return &TipRepository{queue: queue}
}

// Upsert stores the tip amount for one day. A second write for the
// same (waiter, date) replaces the first.
func (r *TipRepository) Upsert(waiterID int64, date string, amountKopecks int64) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO tips (waiter_id, date, amount)
			VALUES (?, ?, ?)
			ON CONFLICT(waiter_id, date) DO UPDATE SET
				amount = excluded.amount
		`, waiterID, date, amountKopecks)
		return nil, err
	})
	return err
}

// SumMonth returns the total for a month, ym = "YYYY-MM".
func (r *TipRepository) SumMonth(waiterID int64, ym string) (int64, error) {
	row := r.queue.DB().QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM tips WHERE waiter_id = ? AND date LIKE ?
	`, waiterID, ym+"-%")

	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// ClearMonth deletes every tip of the month in one statement.
func (r *TipRepository) ClearMonth(waiterID int64, ym string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`DELETE FROM tips WHERE waiter_id = ? AND date LIKE ?`, waiterID, ym+"-%")
		return nil, err
	})
	return err
}
