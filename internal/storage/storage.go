package storage

import (
	"context"

	"github.com/mkeller/billable/internal/aggregate"
	"github.com/mkeller/billable/internal/storage/sqlite"
	"github.com/mkeller/billable/internal/types"
)

// Storage defines the interface for pipeline storage backends.
type Storage interface {
	// Raw activity log. ReplaceDay is atomic: a concurrent reader never
	// observes a partially cleared date.
	ReplaceDay(ctx context.Context, date string, rows []types.ActivityRecord) error
	GetDay(ctx context.Context, date string) ([]types.ActivityRecord, error)

	// Draft entries. ReconcileDay applies all of a date's groups in one
	// transaction: each fingerprint is an atomic insert-or-update and a
	// failure commits nothing for the date.
	ReconcileDay(ctx context.Context, date string, groups []aggregate.Group) ([]types.DraftEntry, error)
	GetDraft(ctx context.Context, fingerprint string) (*types.DraftEntry, error)
	ListDrafts(ctx context.Context, filter types.DraftFilter) ([]types.DraftEntry, error)
	UpdateDraft(ctx context.Context, fingerprint string, updates map[string]interface{}) error
	SetDraftStatus(ctx context.Context, fingerprint string, status types.Status) error
	ClearDrafts(ctx context.Context) error

	// Confirmed entries. ConfirmDraft inserts the snapshot and flips the
	// linked draft to submitted in one transaction; RevertConfirmed
	// deletes the snapshot and resets the draft, returning the linked
	// fingerprint ("" when the id is unknown).
	ConfirmDraft(ctx context.Context, entry *types.ConfirmedEntry) error
	GetConfirmed(ctx context.Context, confirmedID string) (*types.ConfirmedEntry, error)
	ListConfirmed(ctx context.Context, date string) ([]types.ConfirmedEntry, error)
	RevertConfirmed(ctx context.Context, confirmedID string) (string, error)

	// Refresh state singleton.
	GetRefreshState(ctx context.Context) (*types.RefreshState, error)
	SetRefreshState(ctx context.Context, state types.RefreshState) error

	Close() error
}

// Open creates the default SQLite-backed storage at path.
func Open(path string) (Storage, error) {
	return sqlite.New(path)
}
