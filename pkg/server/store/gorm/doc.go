// Package gorm implements the store interfaces on PostgreSQL via GORM.
// State changes and their domain event rows are written in one
// transaction so the event log never records an operation that failed.
package gorm
