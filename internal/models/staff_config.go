package models

type StaffConfig struct {
	AdminIDs     []int64
	ReportChatID int64
}
