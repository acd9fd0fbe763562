// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mrinaldi/quorum/guard"
	"github.com/mrinaldi/quorum/memstore"
	"github.com/mrinaldi/quorum/registry"
	"github.com/mrinaldi/quorum/session"
	"github.com/mrinaldi/quorum/testutil"
)

// env wires the handler layer over a fresh in-memory store, the same
// way the router does it in production.
type env struct {
	st    *memstore.Store
	admin *AdminHandler
	voter *VoterHandler
	views *ViewHandler
}

func newEnv(t *testing.T, phase, topic, code string, confirmTimeout time.Duration) *env {
	t.Helper()

	st := testutil.SetupTestStore(t, phase, topic, code)
	logger := slog.Default()
	sessions := session.NewService(st, logger)
	reg := registry.NewService(st, logger)
	g := guard.New(confirmTimeout, logger)

	return &env{
		st:    st,
		admin: NewAdminHandler(sessions, reg, g, st),
		voter: NewVoterHandler(reg),
		views: NewViewHandler(st),
	}
}
