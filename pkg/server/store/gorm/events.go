package gorm

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server/store"
)

// Ensure EventsStore implements store.EventsStore
var _ store.EventsStore = (*EventsStore)(nil)

// EventsStore implements store.EventsStore using GORM
type EventsStore struct {
	db *gorm.DB
}

// NewEventsStore creates a new EventsStore
func NewEventsStore(db *gorm.DB) *EventsStore {
	return &EventsStore{db: db}
}

// List returns events newest first
func (s *EventsStore) List(kind string, limit int) ([]model.Event, error) {
	query := s.db.Order("seq desc")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Event
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return rows, nil
}
