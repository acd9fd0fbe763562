// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quorum API server.

Quorum coordinates a live voting session shared by one administrator
and many anonymous participants: admission by access code, one vote per
participant per round, live tallies, and realtime fan-out of every
state change to all connected views.

# Starting the Server

The server requires environment variables or CLI flags for
configuration:

	DATABASE_URL=postgres://... ADMIN_KEY=... go run main.go

Or with flags:

	go run main.go -p 8470 -d "postgres://..." -admin-key "..."

# Configuration

Required settings:

  - ADMIN_KEY (-admin-key): Secret for the X-Admin-Key header
  - DATABASE_URL (-d): PostgreSQL connection string (postgres store)

Optional settings:

  - PORT (-p): Server port (default: 8470)
  - STORE_TYPE (-store): postgres or memory (default: postgres)
  - CONFIRM_TIMEOUT_SECONDS (-confirm-timeout): confirm window for
    destructive admin actions (default: 5)

A .env file in the working directory is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (admin, voter, views, SSE events)
  - router: Route definitions using Go 1.22+ routing
  - middleware: admin key check, CORS, logging, JSON helpers
  - models: Domain and request/response types, error taxonomy
  - session: Voting-round phase state machine
  - registry: Participant admission and vote casting
  - stats: Pure tally derivation
  - guard: Two-step confirmation of destructive actions
  - bridge + event: store change stream to typed event fan-out
  - store / db / memstore: store contract and its implementations
  - export: attendance sheet and report archive CSV
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
