package store

import "github.com/certmint/certmint/pkg/model"

// EventsStore abstracts reading the domain event log
type EventsStore interface {
	// List returns events newest first, optionally filtered by kind, up
	// to limit rows. A non-positive limit means no limit.
	List(kind string, limit int) ([]model.Event, error)
}
