// Package lifecycle governs entry review transitions.
//
// State flow:
//   - pending → submitted, ignored, in_progress
//   - in_progress → submitted, ignored
//   - submitted → (revert) → pending
//   - ignored is terminal; no reopening path exists.
//
// Confirming snapshots the draft's edited values into a ConfirmedEntry so
// later re-aggregation can never touch what was submitted.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkeller/billable/internal/types"
)

// Store is the subset of storage the state machine needs. The compound
// operations are atomic: ConfirmDraft writes the snapshot and flips the
// draft in one transaction, RevertConfirmed deletes the snapshot and
// resets the draft in one transaction.
type Store interface {
	GetDraft(ctx context.Context, fingerprint string) (*types.DraftEntry, error)
	SetDraftStatus(ctx context.Context, fingerprint string, status types.Status) error
	ConfirmDraft(ctx context.Context, entry *types.ConfirmedEntry) error
	RevertConfirmed(ctx context.Context, confirmedID string) (string, error)
}

// transitions maps each status to the statuses reachable from it.
var transitions = map[types.Status][]types.Status{
	types.StatusPending:    {types.StatusSubmitted, types.StatusIgnored, types.StatusInProgress},
	types.StatusInProgress: {types.StatusSubmitted, types.StatusIgnored},
	types.StatusSubmitted:  {types.StatusPending},
	types.StatusIgnored:    {},
}

// CanTransition reports whether from → to is a legal review transition.
func CanTransition(from, to types.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Confirm validates edits, snapshots the draft into a ConfirmedEntry and
// flips the draft to submitted. The snapshot carries the edited values;
// the draft's own fields are not mutated beyond status.
func Confirm(ctx context.Context, store Store, fingerprint string, edits *types.EntryEdits, now time.Time) (*types.ConfirmedEntry, error) {
	if err := edits.Validate(); err != nil {
		return nil, err
	}

	draft, err := store.GetDraft(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, fmt.Errorf("draft %s: %w", fingerprint, types.ErrNotFound)
	}
	if !CanTransition(draft.Status, types.StatusSubmitted) {
		return nil, fmt.Errorf("cannot confirm %s draft %s: %w", draft.Status, fingerprint, types.ErrConflict)
	}

	entry := &types.ConfirmedEntry{
		ID:          uuid.NewString(),
		Fingerprint: draft.Fingerprint,
		Date:        draft.Date,
		Application: draft.Application,
		Task:        draft.Task,
		Units:       draft.Units,
		MatterCode:  draft.MatterCode,
		Notes:       draft.Notes,
		Status:      types.StatusSubmitted,
		CreatedAt:   now,
	}
	if edits != nil {
		if edits.Task != nil {
			entry.Task = *edits.Task
		}
		if edits.Units != nil {
			entry.Units = *edits.Units
		}
		if edits.MatterCode != nil {
			entry.MatterCode = *edits.MatterCode
		}
		if edits.Notes != nil {
			entry.Notes = *edits.Notes
		}
	}

	if err := store.ConfirmDraft(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Ignore marks a draft as not billable. No snapshot is created and the
// transition is terminal.
func Ignore(ctx context.Context, store Store, fingerprint string) error {
	return transitionDraft(ctx, store, fingerprint, types.StatusIgnored)
}

// Start marks a draft as being worked on by a reviewer.
func Start(ctx context.Context, store Store, fingerprint string) error {
	return transitionDraft(ctx, store, fingerprint, types.StatusInProgress)
}

// Revert deletes a confirmed entry and resets the linked draft to pending.
func Revert(ctx context.Context, store Store, confirmedID string) error {
	fingerprint, err := store.RevertConfirmed(ctx, confirmedID)
	if err != nil {
		return err
	}
	if fingerprint == "" {
		return fmt.Errorf("confirmed entry %s: %w", confirmedID, types.ErrNotFound)
	}
	return nil
}

func transitionDraft(ctx context.Context, store Store, fingerprint string, to types.Status) error {
	draft, err := store.GetDraft(ctx, fingerprint)
	if err != nil {
		return err
	}
	if draft == nil {
		return fmt.Errorf("draft %s: %w", fingerprint, types.ErrNotFound)
	}
	if !CanTransition(draft.Status, to) {
		return fmt.Errorf("cannot move %s draft %s to %s: %w", draft.Status, fingerprint, to, types.ErrConflict)
	}
	return store.SetDraftStatus(ctx, fingerprint, to)
}
