package db

import (
	"database/sql"

	"github.com/ad/go-telegram-shifts/internal/models"
)

type WaiterRepository struct {
	queue *DBQueue
}

func NewWaiterRepository(queue *DBQueue) *WaiterRepository {
	return &WaiterRepository{queue: queue}
}

// GetOrCreateByTgID returns the waiter for a Telegram user, inserting
// an empty record on first contact.
func (r *WaiterRepository) GetOrCreateByTgID(tgID int64) (*models.Waiter, error) {
	waiter, err := r.GetByTgID(tgID)
	if err == nil {
		return waiter, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	_, err = r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`INSERT OR IGNORE INTO waiters (tg_id) VALUES (?)`, tgID)
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	return r.GetByTgID(tgID)
}

func (r *WaiterRepository) GetByTgID(tgID int64) (*models.Waiter, error) {
	row := r.queue.DB().QueryRow(`
		SELECT id, tg_id, COALESCE(name, '')
		FROM waiters WHERE tg_id = ?
	`, tgID)

	var waiter models.Waiter
	err := row.Scan(&waiter.ID, &waiter.TgID, &waiter.Name)
	if err != nil {
		return nil, err
	}
	return &waiter, nil
}

func (r *WaiterRepository) SetName(tgID int64, name string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`UPDATE waiters SET name = ? WHERE tg_id = ?`, name, tgID)
		return nil, err
	})
	return err
}

func (r *WaiterRepository) GetAll() ([]*models.Waiter, error) {
	rows, err := r.queue.DB().Query(`
		SELECT id, tg_id, COALESCE(name, '')
		FROM waiters
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var waiters []*models.Waiter
	for rows.Next() {
		var waiter models.Waiter
		if err := rows.Scan(&waiter.ID, &waiter.TgID, &waiter.Name); err != nil {
			return nil, err
		}
		waiters = append(waiters, &waiter)
	}
	return waiters, rows.Err()
}
