package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
)

// formatProposalNumber constructs the proposal number string from components.
func formatProposalNumber(year, sequence int) string {
	return fmt.Sprintf("PRV-%d-%04d", year, sequence)
}

// GenerateProposalNumber creates the next proposal number.
// Format: PRV-{year}-{sequence}
// - year: calendar year of now
// - sequence: at least 4 digits, zero-padded, restarting every calendar year
//
// The highest sequence of the year is taken numerically, so PRV-2026-10000
// follows PRV-2026-9999.
func GenerateProposalNumber(app *pocketbase.PocketBase, now time.Time) (string, error) {
	prefix := fmt.Sprintf("PRV-%d-", now.Year())

	existing, err := app.FindRecordsByFilter(
		"proposals",
		"number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("query proposal numbers: %w", err)
	}

	last := 0
	for _, r := range existing {
		seq, err := strconv.Atoi(strings.TrimPrefix(r.GetString("number"), prefix))
		if err != nil {
			continue
		}
		last = max(last, seq)
	}

	return formatProposalNumber(now.Year(), last+1), nil
}
