// Package reconcile defines the merge rule that folds a fresh aggregation
// into the draft entry store without discarding reviewer edits.
//
// The rule itself is a pure function so it can be tested in isolation; the
// storage layer applies it inside a single read-modify-write transaction
// per fingerprint.
package reconcile

import (
	"time"

	"github.com/mkeller/billable/internal/aggregate"
	"github.com/mkeller/billable/internal/identity"
	"github.com/mkeller/billable/internal/types"
)

// Merge returns the draft entry that should be stored for g. When existing
// is nil a new pending draft is created, with the extracted matter code as
// its default. Otherwise only the aggregation-owned fields (billing units
// and last aggregated seconds) are refreshed: status, notes, matter code
// and the task text stay exactly as the reviewer left them.
func Merge(existing *types.DraftEntry, g aggregate.Group, now time.Time) types.DraftEntry {
	if existing == nil {
		return types.DraftEntry{
			Fingerprint: identity.Fingerprint(g.Date, g.Application, g.Task),
			Date:        g.Date,
			Application: g.Application,
			Task:        g.Task,
			Seconds:     g.Seconds,
			Units:       g.Units,
			MatterCode:  g.MatterCode,
			Status:      types.StatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	merged := *existing
	merged.Seconds = g.Seconds
	merged.Units = g.Units
	merged.UpdatedAt = now
	return merged
}
