// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package stats derives vote tallies from a participant snapshot.
package stats

import "github.com/mrinaldi/quorum/models"

// Tally counts the votes in the given participant set. It is a pure
// function: identical input yields identical output regardless of
// element order or caller, and Missing == Total - Voted always holds.
func Tally(participants []models.Participant) models.Tally {
	t := models.Tally{Total: len(participants)}
	for _, p := range participants {
		if p.Vote == nil {
			continue
		}
		t.Voted++
		switch *p.Vote {
		case models.VoteFavor:
			t.Favor++
		case models.VoteAgainst:
			t.Against++
		case models.VoteAbstain:
			t.Abstain++
		}
	}
	t.Missing = t.Total - t.Voted
	return t
}
