package db

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-shifts/internal/models"
)

type StaffConfigRepository struct {
	queue *DBQueue
}

func NewStaffConfigRepository(queue *DBQueue) *StaffConfigRepository {
	return &StaffConfigRepository{queue: queue}
}

func (r *StaffConfigRepository) Get() (*models.StaffConfig, error) {
	db := r.queue.DB()
	config := &models.StaffConfig{
		AdminIDs:     []int64{},
		ReportChatID: 0,
	}

	var adminIDsStr string
	err := db.QueryRow(`SELECT value FROM staff_config WHERE key = ?`, "admin_ids").Scan(&adminIDsStr)
	if err == nil && adminIDsStr != "" {
		parts := strings.Split(adminIDsStr, ",")
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part != "" {
				if id, err := strconv.ParseInt(part, 10, 64); err == nil {
					config.AdminIDs = append(config.AdminIDs, id)
				}
			}
		}
	}

	var reportChatIDStr string
	err = db.QueryRow(`SELECT value FROM staff_config WHERE key = ?`, "report_chat_id").Scan(&reportChatIDStr)
	if err == nil && reportChatIDStr != "" {
		if id, err := strconv.ParseInt(reportChatIDStr, 10, 64); err == nil {
			config.ReportChatID = id
		}
	}

	return config, nil
}

func (r *StaffConfigRepository) Save(config *models.StaffConfig) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		adminIDsStrs := make([]string, len(config.AdminIDs))
		for i, id := range config.AdminIDs {
			adminIDsStrs[i] = strconv.FormatInt(id, 10)
		}
		adminIDsStr := strings.Join(adminIDsStrs, ",")

		_, err := db.Exec(`
			INSERT OR REPLACE INTO staff_config (key, value) VALUES (?, ?)
		`, "admin_ids", adminIDsStr)
		if err != nil {
			return nil, err
		}

		_, err = db.Exec(`
			INSERT OR REPLACE INTO staff_config (key, value) VALUES (?, ?)
		`, "report_chat_id", strconv.FormatInt(config.ReportChatID, 10))
		return nil, err
	})
	return err
}

func (r *StaffConfigRepository) AddAdmin(adminID int64) error {
	config, err := r.Get()
	if err != nil {
		config = &models.StaffConfig{AdminIDs: []int64{}}
	}

	for _, id := range config.AdminIDs {
		if id == adminID {
			return nil
		}
	}

	config.AdminIDs = append(config.AdminIDs, adminID)
	return r.Save(config)
}

func (r *StaffConfigRepository) RemoveAdmin(adminID int64) error {
	config, err := r.Get()
	if err != nil {
		return err
	}

	newAdminIDs := []int64{}
	for _, id := range config.AdminIDs {
		if id != adminID {
			newAdminIDs = append(newAdminIDs, id)
		}
	}

	config.AdminIDs = newAdminIDs
	return r.Save(config)
}

func (r *StaffConfigRepository) IsAdmin(userID int64) (bool, error) {
	config, err := r.Get()
	if err != nil {
		return false, err
	}

	for _, id := range config.AdminIDs {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
