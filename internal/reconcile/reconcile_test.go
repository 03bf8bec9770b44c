package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mkeller/billable/internal/aggregate"
	"github.com/mkeller/billable/internal/identity"
	"github.com/mkeller/billable/internal/types"
)

var now = time.Date(2025, 1, 14, 18, 0, 0, 0, time.UTC)

func group() aggregate.Group {
	return aggregate.Group{
		Date:        "2025-01-14",
		Application: "Microsoft Word",
		Task:        "Contract_Review_22069.docx",
		Seconds:     450,
		Units:       1.3,
		MatterCode:  "22069",
	}
}

func TestMergeCreatesNewDraft(t *testing.T) {
	g := group()
	entry := Merge(nil, g, now)

	assert.Equal(t, identity.Fingerprint(g.Date, g.Application, g.Task), entry.Fingerprint)
	assert.Equal(t, types.StatusPending, entry.Status)
	assert.Equal(t, 450, entry.Seconds)
	assert.Equal(t, 1.3, entry.Units)
	assert.Equal(t, "22069", entry.MatterCode)
	assert.Empty(t, entry.Notes)
	assert.Equal(t, now, entry.CreatedAt)
	assert.Equal(t, now, entry.UpdatedAt)
}

func TestMergePreservesReviewerFields(t *testing.T) {
	g := group()
	existing := Merge(nil, g, now.Add(-time.Hour))

	// Reviewer edits happen between reprocesses.
	existing.Status = types.StatusInProgress
	existing.Notes = "split with associate"
	existing.MatterCode = "30001"
	existing.Task = "Contract review — client revisions"

	g.Seconds = 900
	g.Units = 2.5
	merged := Merge(&existing, g, now)

	assert.Equal(t, 900, merged.Seconds)
	assert.Equal(t, 2.5, merged.Units)
	assert.Equal(t, now, merged.UpdatedAt)

	assert.Equal(t, types.StatusInProgress, merged.Status)
	assert.Equal(t, "split with associate", merged.Notes)
	assert.Equal(t, "30001", merged.MatterCode)
	assert.Equal(t, "Contract review — client revisions", merged.Task)
	assert.Equal(t, existing.CreatedAt, merged.CreatedAt)
}

func TestMergeDoesNotOverwriteExtractedCode(t *testing.T) {
	g := group()
	existing := Merge(nil, g, now.Add(-time.Hour))
	existing.MatterCode = ""

	// A cleared code stays cleared even though the group still carries one.
	merged := Merge(&existing, g, now)
	assert.Empty(t, merged.MatterCode)
}
