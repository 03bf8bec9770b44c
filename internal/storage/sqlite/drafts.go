package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mkeller/billable/internal/aggregate"
	"github.com/mkeller/billable/internal/lifecycle"
	"github.com/mkeller/billable/internal/reconcile"
	"github.com/mkeller/billable/internal/types"
)

const draftColumns = `fingerprint, entry_date, application, task_description,
       total_seconds, time_units, matter_code, status, notes,
       created_at, updated_at`

// ReconcileDay folds a date's aggregation groups into the draft entry
// table. The whole date is one immediate transaction: every fingerprint is
// an atomic insert-or-update, and any failure leaves the date untouched.
//
// The ON CONFLICT clause only refreshes the reconciler-owned columns, so
// status, notes, matter code and task text survive at the SQL level even
// if the pre-merge read ever drifted from the stored row.
func (s *Store) ReconcileDay(ctx context.Context, date string, groups []aggregate.Group) ([]types.DraftEntry, error) {
	if !types.ValidDate(date) {
		return nil, &types.ValidationError{Field: "entry_date", Reason: fmt.Sprintf("not a YYYY-MM-DD date: %q", date)}
	}

	now := time.Now().UTC()
	merged := make([]types.DraftEntry, 0, len(groups))

	err := s.withImmediateTx(ctx, func(conn *sql.Conn) error {
		for _, g := range groups {
			if g.Date != date {
				return &types.ValidationError{Field: "entry_date", Reason: fmt.Sprintf("group date %q does not match %q", g.Date, date)}
			}

			entry := reconcile.Merge(nil, g, now)
			existing, err := scanDraft(conn.QueryRowContext(ctx,
				"SELECT "+draftColumns+" FROM draft_entries WHERE fingerprint = ?", entry.Fingerprint))
			if err != nil {
				return err
			}
			entry = reconcile.Merge(existing, g, now)
			if err := entry.Validate(); err != nil {
				return err
			}

			_, err = conn.ExecContext(ctx, `
				INSERT INTO draft_entries (
					fingerprint, entry_date, application, task_description,
					total_seconds, time_units, matter_code, status, notes,
					created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(fingerprint) DO UPDATE SET
					total_seconds = excluded.total_seconds,
					time_units    = excluded.time_units,
					updated_at    = excluded.updated_at
			`, entry.Fingerprint, entry.Date, entry.Application, entry.Task,
				entry.Seconds, entry.Units, entry.MatterCode, entry.Status, entry.Notes,
				entry.CreatedAt, entry.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to upsert draft %s: %w", entry.Fingerprint, err)
			}

			merged = append(merged, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// GetDraft retrieves a draft entry by fingerprint. Returns nil when absent.
func (s *Store) GetDraft(ctx context.Context, fingerprint string) (*types.DraftEntry, error) {
	return scanDraft(s.db.QueryRowContext(ctx,
		"SELECT "+draftColumns+" FROM draft_entries WHERE fingerprint = ?", fingerprint))
}

// ListDrafts returns draft entries matching the filter, ordered by
// aggregated duration descending then task name, matching report order.
func (s *Store) ListDrafts(ctx context.Context, filter types.DraftFilter) ([]types.DraftEntry, error) {
	whereClauses := []string{}
	args := []interface{}{}

	if filter.Date != "" {
		whereClauses = append(whereClauses, "entry_date = ?")
		args = append(args, filter.Date)
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, "status = ?")
		args = append(args, *filter.Status)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = "WHERE " + strings.Join(whereClauses, " AND ")
	}
	limitSQL := ""
	if filter.Limit > 0 {
		limitSQL = fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM draft_entries
		%s
		ORDER BY total_seconds DESC, task_description ASC
		%s
	`, draftColumns, whereSQL, limitSQL)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var entries []types.DraftEntry
	for rows.Next() {
		e, err := scanDraftRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Allowed fields for reviewer updates; everything else is owned by the
// reconciler and must go through ReconcileDay.
var allowedDraftUpdateFields = map[string]bool{
	"notes":       true,
	"matter_code": true,
	"status":      true,
}

// UpdateDraft applies reviewer edits to the human-owned fields of a draft.
// Status changes are checked against the lifecycle transitions using the
// stored status, inside the same transaction as the write, so an edit can
// never reopen an ignored draft or race a concurrent transition. Marking
// submitted is rejected outright: that transition creates a snapshot and
// must go through confirmation.
func (s *Store) UpdateDraft(ctx context.Context, fingerprint string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}
	var newStatus *types.Status

	for key, value := range updates {
		if !allowedDraftUpdateFields[key] {
			return fmt.Errorf("invalid field for update: %s", key)
		}
		if key == "status" {
			status, ok := value.(types.Status)
			if !ok || !status.IsValid() {
				return &types.ValidationError{Field: "status", Reason: fmt.Sprintf("invalid status: %v", value)}
			}
			if status == types.StatusSubmitted {
				return fmt.Errorf("cannot mark draft %s submitted directly, confirm it instead: %w", fingerprint, types.ErrConflict)
			}
			newStatus = &status
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = ?", key))
		args = append(args, value)
	}
	args = append(args, fingerprint)
	query := fmt.Sprintf("UPDATE draft_entries SET %s WHERE fingerprint = ?", strings.Join(setClauses, ", "))

	return s.withImmediateTx(ctx, func(conn *sql.Conn) error {
		if newStatus != nil {
			var current types.Status
			err := conn.QueryRowContext(ctx,
				`SELECT status FROM draft_entries WHERE fingerprint = ?`, fingerprint).Scan(&current)
			if err == sql.ErrNoRows {
				return fmt.Errorf("draft %s: %w", fingerprint, types.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to read draft status: %w", err)
			}
			// Re-asserting the current status is a no-op, not a transition.
			if current != *newStatus && !lifecycle.CanTransition(current, *newStatus) {
				return fmt.Errorf("cannot move %s draft %s to %s: %w", current, fingerprint, *newStatus, types.ErrConflict)
			}
		}

		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update draft: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("draft %s: %w", fingerprint, types.ErrNotFound)
		}
		return nil
	})
}

// SetDraftStatus sets only the status of a draft entry.
func (s *Store) SetDraftStatus(ctx context.Context, fingerprint string, status types.Status) error {
	if !status.IsValid() {
		return &types.ValidationError{Field: "status", Reason: fmt.Sprintf("invalid status: %s", status)}
	}
	return s.UpdateDraft(ctx, fingerprint, map[string]interface{}{"status": status})
}

// ClearDrafts removes all draft entries. Explicit operation only; the
// reconciler never deletes.
func (s *Store) ClearDrafts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM draft_entries`); err != nil {
		return fmt.Errorf("failed to clear drafts: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDraft(row *sql.Row) (*types.DraftEntry, error) {
	e, err := scanDraftRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func scanDraftRow(row rowScanner) (*types.DraftEntry, error) {
	var e types.DraftEntry
	err := row.Scan(
		&e.Fingerprint, &e.Date, &e.Application, &e.Task,
		&e.Seconds, &e.Units, &e.MatterCode, &e.Status, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan draft: %w", err)
	}
	return &e, nil
}
