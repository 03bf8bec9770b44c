package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkeller/billable/internal/types"
)

const refreshKey = "last_current_day_update"

// GetRefreshState returns the timestamp of the last current-day refresh,
// or nil when no refresh has been recorded yet.
func (s *Store) GetRefreshState(ctx context.Context) (*types.RefreshState, error) {
	var state types.RefreshState
	err := s.db.QueryRowContext(ctx,
		`SELECT date, updated_at FROM refresh_state WHERE key = ?`, refreshKey,
	).Scan(&state.Date, &state.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh state: %w", err)
	}
	return &state, nil
}

// SetRefreshState records a successful refresh of the given date.
func (s *Store) SetRefreshState(ctx context.Context, state types.RefreshState) error {
	if !types.ValidDate(state.Date) {
		return &types.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_state (key, date, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET date = excluded.date, updated_at = excluded.updated_at
	`, refreshKey, state.Date, state.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to set refresh state: %w", err)
	}
	return nil
}
