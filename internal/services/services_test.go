package services

import (
	"database/sql"
	"testing"

	"github.com/ad/go-telegram-shifts/internal/db"
	_ "modernc.org/sqlite"
)

func newTestQueue(t *testing.T) *db.DBQueue {
	t.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// One connection, or each pooled connection would get its own
	// empty in-memory database.
	testDB.SetMaxOpenConns(1)

	if err := db.InitSchema(testDB); err != nil {
		t.Fatal(err)
	}

	queue := db.NewDBQueueForTest(testDB)
	t.Cleanup(func() {
		queue.Close()
		testDB.Close()
	})
	return queue
}
