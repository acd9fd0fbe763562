// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mrinaldi/quorum/cliparse"
	"github.com/mrinaldi/quorum/memstore"
	"github.com/mrinaldi/quorum/models"
)

// TestAdminKey is the admin key used by test configurations.
const TestAdminKey = "test-admin-key"

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           8470,
		StoreType:      cliparse.StoreMemory,
		AdminKey:       TestAdminKey,
		ConfirmTimeout: 5 * time.Second,
	}
}

// SetupTestStore creates a fresh in-memory store seeded with the given
// session state.
func SetupTestStore(t *testing.T, phase, topic, accessCode string) *memstore.Store {
	t.Helper()

	st := memstore.New()
	if err := st.ResetSession(context.Background(), phase, topic, accessCode); err != nil {
		t.Fatalf("Failed to seed session: %v", err)
	}
	return st
}

// AdmitTestParticipant registers a participant directly in the store
func AdmitTestParticipant(t *testing.T, st *memstore.Store, firstName, lastName string) models.Participant {
	t.Helper()

	p, err := st.UpsertParticipant(context.Background(), firstName, lastName)
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}
	return p
}

// CastTestVote records a vote directly in the store
func CastTestVote(t *testing.T, st *memstore.Store, participantID, choice string) {
	t.Helper()

	applied, err := st.SetVote(context.Background(), participantID, choice)
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	if !applied {
		t.Fatalf("Test vote for %s not applied", participantID)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AdminHeaders returns the header map for admin-authenticated requests
func AdminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": TestAdminKey}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
