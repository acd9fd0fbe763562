// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"strings"
	"testing"
	"time"

	"github.com/mrinaldi/quorum/models"
)

func TestAttendance(t *testing.T) {
	admitted := time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)
	vote := models.VoteFavor
	participants := []models.Participant{
		{ID: "a", FirstName: "Ada", LastName: "Lovelace", Vote: &vote, AdmittedAt: admitted},
		{ID: "b", FirstName: "Alan", LastName: "Turing", AdmittedAt: admitted.Add(5 * time.Minute)},
	}

	var sb strings.Builder
	if err := Attendance(&sb, participants); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "FirstName;LastName;AccessTime" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if lines[1] != "Ada;Lovelace;14/03/2025 09:26" {
		t.Errorf("Unexpected first row: %q", lines[1])
	}
	if lines[2] != "Alan;Turing;14/03/2025 09:31" {
		t.Errorf("Unexpected second row: %q", lines[2])
	}
}

func TestAttendanceEmpty(t *testing.T) {
	var sb strings.Builder
	if err := Attendance(&sb, nil); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "FirstName;LastName;AccessTime\n" {
		t.Errorf("Empty sheet must still carry the header, got %q", sb.String())
	}
}

func TestReportArchive(t *testing.T) {
	created := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	reports := []models.SessionReport{
		{ID: "r1", Topic: "School budget", TotalPresent: 5, Favor: 3, Against: 1, Abstain: 1, CreatedAt: created},
	}

	var sb strings.Builder
	if err := ReportArchive(&sb, reports); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Date;Topic;TotalPresent;Favor;Against;Abstain" {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if lines[1] != "14/03/2025 18:00;School budget;5;3;1;1" {
		t.Errorf("Unexpected row: %q", lines[1])
	}
}

// Topics containing the separator must be quoted, not split.
func TestReportArchiveQuotesSeparator(t *testing.T) {
	reports := []models.SessionReport{
		{Topic: "budget; phase two", CreatedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
	}

	var sb strings.Builder
	if err := ReportArchive(&sb, reports); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), `"budget; phase two"`) {
		t.Errorf("Separator in topic must be quoted: %q", sb.String())
	}
}
