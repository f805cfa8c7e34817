// Package audit provides audit logging for CertMint operations.
//
// This package implements structured audit logging for security-relevant
// operations such as authentication attempts, issuer grants, certificate
// issuance and destruction.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Authentication events (success/failure)
//   - Principal registration events
//   - Admin credential lifecycle events (init/rotate)
//   - Issuer grant events
//   - Certificate issuance events (single and batch)
//   - Certificate destruction events
//
// # Usage
//
//	audit.Log(audit.IssueEvent{
//	    Issuer:        issuerAddress,
//	    Recipient:     recipient,
//	    CertificateID: certID,
//	    Success:       true,
//	})
//
// Events are written to stdout in RFC5424 syslog format and, when
// AUDIT_DATABASE_URL is set, persisted to the messages table for later
// inspection.
package audit
