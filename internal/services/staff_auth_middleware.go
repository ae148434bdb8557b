package services

import (
	"github.com/ad/go-telegram-shifts/internal/db"
)

// StaffAuthMiddleware gates admin-only handlers on the configured
// allow-list. The list lives in staff_config, not in code.
type StaffAuthMiddleware struct {
	configRepo *db.StaffConfigRepository
}

func NewStaffAuthMiddleware(configRepo *db.StaffConfigRepository) *StaffAuthMiddleware {
	return &StaffAuthMiddleware{
		configRepo: configRepo,
	}
}

func (m *StaffAuthMiddleware) IsAdmin(userID int64) bool {
	isAdmin, err := m.configRepo.IsAdmin(userID)
	if err != nil {
		return false
	}
	return isAdmin
}
