// Package model defines the database models for CertMint.
//
// This package contains GORM models that map to the CertMint PostgreSQL
// schema.
//
// # Core Models
//
//   - AdminCredential: the singleton administrative capability token
//   - IssuerCredential: delegated issuing capabilities bound to addresses
//   - Certificate: issued certificate records owned by their recipients
//   - Principal: addresses that can authenticate with an API key
//   - Event: the append-only domain event log
//
// Capability tokens and API keys are never stored in plaintext; only
// their SHA-256 digests are persisted. The plaintext is generated here
// and returned to the caller exactly once, at creation time.
//
// # Database Schema
//
// The database uses PostgreSQL with the following key tables:
//
//   - admin_credentials: the administrative capability (at most one row)
//   - issuer_credentials: issuing capabilities and their bound addresses
//   - certificates: issued certificates
//   - principals: authenticatable addresses
//   - events: domain events, written transactionally with state changes
//   - messages: RFC 5424 audit records (see pkg/audit)
package model
