// Package server provides the HTTP server for the CertMint API.
//
// This package implements the core HTTP server that handles all CertMint
// REST API requests. It uses gorilla/mux for routing and provides
// middleware for authentication and request handling.
//
// # Server Setup
//
//	srv := server.NewServer(db, cfg, signer, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - Signer: access token signing and validation
//   - the store interfaces the endpoints read and write through
//   - JWTMiddleware: access token validation for protected routes
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers all CertMint API endpoints including:
//
//   - /addresses - principal registration
//   - /authn/{address}/authenticate - API key authentication
//   - /issuers - issuer credential granting and inspection
//   - /certificates - issuance, batch issuance, verification, destruction
//   - /events - the domain event log
//   - /whoami - token introspection
package server
