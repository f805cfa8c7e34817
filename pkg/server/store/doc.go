// Package store defines the interfaces the HTTP endpoints depend on for
// persistence. Implementations live in subpackages; the gorm subpackage is
// the PostgreSQL one used in production.
package store
