package db

import (
	"database/sql"
	"sync"
)

type dbTask struct {
	fn   func(*sql.DB) (interface{}, error)
	done chan dbResult
}

type dbResult struct {
	value interface{}
	err   error
}

// DBQueue funnels every write through a single goroutine so that
// concurrent handlers never hit SQLite with overlapping writes.
// Reads go straight to the connection via DB().
type DBQueue struct {
	db    *sql.DB
	tasks chan dbTask
	wg    sync.WaitGroup
}

func NewDBQueue(db *sql.DB) *DBQueue {
	q := &DBQueue{
		db:    db,
		tasks: make(chan dbTask, 64),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// NewDBQueueForTest is NewDBQueue for in-memory test databases.
func NewDBQueueForTest(db *sql.DB) *DBQueue {
	return NewDBQueue(db)
}

func (q *DBQueue) run() {
	defer q.wg.Done()
	for task := range q.tasks {
		value, err := task.fn(q.db)
		task.done <- dbResult{value: value, err: err}
	}
}

// Execute runs fn on the writer goroutine and waits for its result.
func (q *DBQueue) Execute(fn func(*sql.DB) (interface{}, error)) (interface{}, error) {
	done := make(chan dbResult, 1)
	q.tasks <- dbTask{fn: fn, done: done}
	result := <-done
	return result.value, result.err
}

// DB exposes the underlying connection for reads.
func (q *DBQueue) DB() *sql.DB {
	return q.db
}

func (q *DBQueue) Close() {
	close(q.tasks)
	q.wg.Wait()
}
