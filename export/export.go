// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package export renders the attendance sheet and the report archive
// as semicolon-separated text for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mrinaldi/quorum/models"
)

const timestampLayout = "02/01/2006 15:04"

// Attendance writes the sign-in sheet: one row per participant in
// admission order. Callers pass the list as returned by the store,
// which already orders by admission time.
func Attendance(w io.Writer, participants []models.Participant) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write([]string{"FirstName", "LastName", "AccessTime"}); err != nil {
		return fmt.Errorf("write attendance header: %w", err)
	}
	for _, p := range participants {
		record := []string{p.FirstName, p.LastName, p.AdmittedAt.Format(timestampLayout)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write attendance row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportArchive writes the archive of per-close tallies.
func ReportArchive(w io.Writer, reports []models.SessionReport) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"Date", "Topic", "TotalPresent", "Favor", "Against", "Abstain"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, r := range reports {
		record := []string{
			r.CreatedAt.Format(timestampLayout),
			r.Topic,
			strconv.Itoa(r.TotalPresent),
			strconv.Itoa(r.Favor),
			strconv.Itoa(r.Against),
			strconv.Itoa(r.Abstain),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
