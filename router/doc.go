// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quorum API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, bus, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Session control (admin, requires X-Admin-Key):

	GET    /session/admin                   - Full state incl. access code
	PUT    /session/topic                   - Set deliberation topic
	PUT    /session/access-code             - Set admission code
	POST   /session/open                    - Open voting
	POST   /session/close                   - Close voting, archive report
	POST   /session/terminate               - End sitting (two-step confirm)
	POST   /session/votes/clear             - Reset ballots (two-step confirm)
	POST   /session/wipe                    - Full reset (two-step confirm)
	DELETE /session/confirmations/{action}  - Abandon a pending confirm
	GET    /session/participants            - Attendee list
	GET    /session/reports                 - Report archive
	GET    /session/export/attendance       - Sign-in sheet CSV
	GET    /session/export/reports          - Report archive CSV

Voting (public):

	POST /session/admit             - Sign in with access code
	POST /participants/{id}/vote    - Cast the single vote
	GET  /participants/{id}         - Own state lookup

Views (public):

	GET /session        - Phase and topic, no access code
	GET /session/stats  - Live tally
	GET /events         - SSE stream of domain events

# Handler Initialization

The router builds the service layer and handler instances with
dependency injection:

	sessions := session.NewService(st, logger)
	reg := registry.NewService(st, logger)
	adminHandler := handlers.NewAdminHandler(sessions, reg, g, st)

Admin routes are wrapped in RequireAdmin; all non-stream routes carry
request logging.
*/
package router
