package model

import "time"

// Event is one row of the append-only domain event log. Rows are written
// in the same database transaction as the state change they describe, so
// a failed operation emits nothing. Payload is the JSON-encoded event
// body; Kind names its shape (see pkg/events).
type Event struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Kind      string    `gorm:"column:kind"`
	Seq       int64     `gorm:"column:seq;autoIncrement"`
	Payload   []byte    `gorm:"column:payload;type:jsonb"`
	EmittedAt time.Time `gorm:"column:emitted_at"`
}

func (Event) TableName() string {
	return "events"
}
