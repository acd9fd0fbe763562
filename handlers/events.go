// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mrinaldi/quorum/bridge"
	"github.com/mrinaldi/quorum/event"
	"github.com/mrinaldi/quorum/middleware"
)

// allEventTypes is what a consumer gets without a ?types= filter.
var allEventTypes = []event.EventType{
	bridge.EventSessionUpdated,
	bridge.EventSessionTerminated,
	bridge.EventParticipantUpdated,
	bridge.EventParticipantsCleared,
	bridge.EventTallyUpdated,
	bridge.EventReportAppended,
	bridge.EventReportsCleared,
}

type EventsHandler struct {
	bus *event.Bus
}

func NewEventsHandler(bus *event.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream handles GET /events - a server-sent-events stream of typed
// domain events. Optional ?types=tally.updated,session.updated narrows
// the subscription. The subscription is torn down when the client
// disconnects, so reconnecting views never leave a handler behind.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	types := allEventTypes
	if raw := r.URL.Query().Get("types"); raw != "" {
		types = nil
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, event.EventType(t))
			}
		}
		if len(types) == 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "types filter is empty")
			return
		}
	}

	sub := h.bus.Subscribe(types...)
	defer h.bus.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				slog.Error("failed to encode event", "type", evt.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, payload)
			flusher.Flush()
		}
	}
}
