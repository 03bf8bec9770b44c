// Package aggregate turns a day's raw activity records into grouped,
// unit-converted candidates for reconciliation.
package aggregate

import (
	"sort"

	"github.com/mkeller/billable/internal/canonical"
	"github.com/mkeller/billable/internal/matter"
	"github.com/mkeller/billable/internal/types"
)

// Group is one aggregated (date, application, canonical task) bucket.
type Group struct {
	Date        string
	Application string
	Task        string
	Seconds     int
	Units       float64
	MatterCode  string
}

// Aggregate groups a single date's records by (date, application,
// canonical title), sums durations, and converts to billing units.
// Rows rejected by the noise filter never reach a group. Output is ordered
// by summed duration descending, canonical title ascending on ties, so
// reprocessing the same rows is deterministic.
func Aggregate(rows []types.ActivityRecord, filter canonical.Filter) []Group {
	type key struct {
		date, app, task string
	}
	sums := make(map[key]int)
	for _, row := range rows {
		// A zero-duration observation is no activity; dropping it here
		// keeps the minimum-unit floor from minting drafts out of nothing.
		if row.Seconds <= 0 {
			continue
		}
		task := canonical.Canonicalize(row.Title, row.Application)
		if !filter.Billable(task, row.Application) {
			continue
		}
		sums[key{row.Date, row.Application, task}] += row.Seconds
	}

	groups := make([]Group, 0, len(sums))
	for k, seconds := range sums {
		g := Group{
			Date:        k.date,
			Application: k.app,
			Task:        k.task,
			Seconds:     seconds,
			Units:       Units(seconds),
		}
		// All rows in a group share one canonical title, so extracting
		// once per group is identical to extracting per row.
		if code, ok := matter.ExtractCode(k.task); ok {
			g.MatterCode = code
		}
		groups = append(groups, g)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Seconds != groups[j].Seconds {
			return groups[i].Seconds > groups[j].Seconds
		}
		return groups[i].Task < groups[j].Task
	})
	return groups
}
