package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestQueue(tb testing.TB) *DBQueue {
	tb.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		tb.Fatal(err)
	}
	// One connection, or each pooled connection would get its own
	// empty in-memory database.
	testDB.SetMaxOpenConns(1)

	if err := InitSchema(testDB); err != nil {
		tb.Fatal(err)
	}

	queue := NewDBQueueForTest(testDB)
	tb.Cleanup(func() {
		queue.Close()
		testDB.Close()
	})
	return queue
}

func createTestWaiter(tb testing.TB, queue *DBQueue, tgID int64, name string) int64 {
	tb.Helper()

	repo := NewWaiterRepository(queue)
	waiter, err := repo.GetOrCreateByTgID(tgID)
	if err != nil {
		tb.Fatal(err)
	}
	if name != "" {
		if err := repo.SetName(tgID, name); err != nil {
			tb.Fatal(err)
		}
	}
	return waiter.ID
}
