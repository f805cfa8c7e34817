// Package main implements certmintctl, the command-line toolkit for the
// CertMint certificate server.
//
// CertMint issues digital certificates under a capability model: holding a
// credential token is what authorizes an action, and issuer credentials are
// additionally bound to the address they were granted to.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: Storage interfaces and their GORM implementations
//   - pkg/model: Database models and credential token helpers
//   - pkg/token: Access token signing and verification
//   - pkg/authenticator: Authentication mechanisms (API key)
//   - pkg/events: Event log types and the Kafka relay
//   - pkg/metrics: Prometheus instrumentation
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//   - pkg/db: Database connection utilities
//
// # Quick Start
//
// The server is run via the certmintctl CLI:
//
//	# Generate a signing key for access tokens
//	export CERTMINT_TOKEN_SIGNING_KEY="$(certmintctl signing-key generate)"
//
//	# Run database migrations
//	certmintctl db migrate
//
//	# Bootstrap the admin credential
//	certmintctl admin init
//
//	# Start the server
//	certmintctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - CERTMINT_TOKEN_SIGNING_KEY: Hex-encoded 256-bit key for signing access tokens
//   - CERTMINT_CONFIG_PATH: Directory holding certmint.yml (default: /etc/certmint/config)
//   - AUDIT_DATABASE_URL: Optional PostgreSQL connection string for audit persistence
//   - CERTMINT_AUDIT_ENABLED: Set to "false" to disable audit logging
//   - CERTMINT_LOG_LEVEL: Set to "debug" for verbose database logging
//   - PORT: Server port (default: 8000)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
package main
