package db

import (
	"database/sql"
	"log"
	"os"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS waiters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    tg_id INTEGER NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS shifts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    waiter_id INTEGER NOT NULL REFERENCES waiters(id),
    date TEXT NOT NULL,
    hours REAL NOT NULL DEFAULT 0,
    tasks TEXT NOT NULL DEFAULT '',
    UNIQUE(waiter_id, date)
);

CREATE TABLE IF NOT EXISTS tips (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    waiter_id INTEGER NOT NULL REFERENCES waiters(id),
    date TEXT NOT NULL,
    amount INTEGER NOT NULL DEFAULT 0,
    UNIQUE(waiter_id, date)
);

CREATE TABLE IF NOT EXISTS staff_config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_shifts_waiter ON shifts(waiter_id);
CREATE INDEX IF NOT EXISTS idx_tips_waiter_date ON tips(waiter_id, date);
`

const migrations = `
ALTER TABLE shifts ADD COLUMN tasks TEXT NOT NULL DEFAULT '';
ALTER TABLE waiters ADD COLUMN name TEXT NOT NULL DEFAULT ''
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return err
	}

	migrationStatements := strings.Split(migrations, ";")
	for i, stmt := range migrationStatements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		// Failures mean the column already exists.
		if _, err := db.Exec(stmt); err == nil {
			log.Printf("Migration %d executed: %s", i, stmt)
		}
	}

	if err := InitializeStaffConfig(db); err != nil {
		log.Printf("Failed to initialize staff config: %v", err)
		return err
	}

	return nil
}

// InitializeStaffConfig seeds the admin allow-list and report chat from
// the environment on first run only; existing values win.
func InitializeStaffConfig(db *sql.DB) error {
	adminIDs := strings.TrimSpace(getEnv("ADMIN_IDS", ""))
	reportChatID := strings.TrimSpace(getEnv("REPORT_CHAT_ID", "0"))

	if adminIDs != "" {
		_, err := db.Exec("INSERT OR IGNORE INTO staff_config (key, value) VALUES (?, ?)", "admin_ids", adminIDs)
		if err != nil {
			return err
		}
	}

	if reportChatID != "0" {
		_, err := db.Exec("INSERT OR IGNORE INTO staff_config (key, value) VALUES (?, ?)", "report_chat_id", reportChatID)
		if err != nil {
			return err
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
