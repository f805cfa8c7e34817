// Package events defines CertMint's domain events and the Kafka relay.
//
// Domain events (issuer created, certificate issued, certificate
// destroyed) are written to the events table in the same transaction as
// the state change they describe. The Relay tails that table and
// publishes new rows to Kafka in insertion order, tracking its position
// in the relay_offsets table.
//
// Event kinds are generated with enumer; run go generate after adding a
// new Kind constant.
package events
