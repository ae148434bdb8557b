package models

type Waiter struct {
	ID   int64
	TgID int64
	Name string
}
