// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP surface.

Handlers are grouped by audience:

  - AdminHandler: session control (topic, access code, open, close)
    plus the guarded destructive actions (terminate, clear votes,
    wipe). Destructive endpoints answer 202 with a deadline on the
    first invocation and execute on the second.
  - VoterHandler: admission, vote casting, own-state lookup.
  - ViewHandler: public session projection, live tally, participant
    and report listings, CSV downloads, health probe.
  - EventsHandler: the /events SSE stream fed by the fan-out bridge.

No handler applies an optimistic local update: responses reflect only
what the store confirmed, so AlreadyVoted stays the authoritative
answer on a double submit.
*/
package handlers
