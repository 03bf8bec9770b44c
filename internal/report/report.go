// Package report renders draft and confirmed entries for human review.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"

	"github.com/mkeller/billable/internal/types"
)

var (
	headerColor  = color.New(color.Bold, color.FgCyan)
	pendingColor = color.New(color.FgYellow)
	doneColor    = color.New(color.FgGreen)
	ignoredColor = color.New(color.Faint)
	matterColor  = color.New(color.FgMagenta)
)

const maxTaskWidth = 60

// WriteTable renders drafts as a console table ordered as given (the
// store already sorts by duration descending).
func WriteTable(w io.Writer, drafts []types.DraftEntry) {
	if len(drafts) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}

	headerColor.Fprintf(w, "%-14s %-6s %-8s %-7s %-12s %s\n",
		"FINGERPRINT", "UNITS", "MATTER", "STATUS", "DATE", "TASK")

	var totalUnits float64
	for _, d := range drafts {
		task := d.Task
		if len([]rune(task)) > maxTaskWidth {
			task = string([]rune(task)[:maxTaskWidth-1]) + "…"
		}
		matter := d.MatterCode
		if matter == "" {
			matter = "-"
		}

		line := fmt.Sprintf("%-14s %-6s %-8s %-7s %-12s %s",
			shortFingerprint(d.Fingerprint),
			strconv.FormatFloat(d.Units, 'f', 1, 64),
			matter, d.Status, d.Date, task)

		switch d.Status {
		case types.StatusSubmitted:
			doneColor.Fprintln(w, line)
		case types.StatusIgnored:
			ignoredColor.Fprintln(w, line)
		default:
			pendingColor.Fprintln(w, line)
		}

		if d.Status != types.StatusIgnored {
			totalUnits += d.Units
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d entries, ", len(drafts))
	matterColor.Fprintf(w, "%.1f units", totalUnits)
	fmt.Fprintln(w, " (excluding ignored)")
}

// WriteSummary prints what the cleaning stage kept versus discarded.
func WriteSummary(w io.Writer, totalRows, keptGroups, droppedRows, totalSeconds, droppedSeconds int) {
	fmt.Fprintf(w, "%d raw rows → %d entries", totalRows, keptGroups)
	if totalSeconds > 0 {
		pct := float64(droppedSeconds) / float64(totalSeconds) * 100
		fmt.Fprintf(w, "; filtered %d rows (%.1f%% of tracked time)", droppedRows, pct)
	}
	fmt.Fprintln(w)
}

// ExportCSV writes drafts to path as CSV. The layout mirrors the console
// table plus the fields the table truncates.
func ExportCSV(path string, drafts []types.DraftEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{
		"fingerprint", "date", "application", "task", "seconds", "units",
		"matter_code", "status", "notes",
	}); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, d := range drafts {
		record := []string{
			d.Fingerprint, d.Date, d.Application, d.Task,
			strconv.Itoa(d.Seconds),
			strconv.FormatFloat(d.Units, 'f', 1, 64),
			d.MatterCode, string(d.Status), d.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
