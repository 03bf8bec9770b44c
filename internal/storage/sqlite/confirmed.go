package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mkeller/billable/internal/types"
)

const confirmedColumns = `id, fingerprint, entry_date, application,
       task_description, time_units, matter_code, notes, status, created_at`

// ConfirmDraft inserts a confirmed snapshot and flips the linked draft to
// submitted in one transaction. A second confirmation for the same
// fingerprint fails the UNIQUE constraint and surfaces as ErrConflict.
func (s *Store) ConfirmDraft(ctx context.Context, entry *types.ConfirmedEntry) error {
	if entry.ID == "" || entry.Fingerprint == "" {
		return &types.ValidationError{Field: "confirmed_id", Reason: "id and fingerprint are required"}
	}

	return s.withImmediateTx(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO confirmed_entries (
				id, fingerprint, entry_date, application, task_description,
				time_units, matter_code, notes, status, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.Fingerprint, entry.Date, entry.Application, entry.Task,
			entry.Units, entry.MatterCode, entry.Notes, entry.Status, entry.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("draft %s already confirmed: %w", entry.Fingerprint, types.ErrConflict)
			}
			return fmt.Errorf("failed to insert confirmed entry: %w", err)
		}

		// The status guard makes the flip conditional on the draft still
		// being confirmable, so a transition that landed after the
		// caller's read cannot be overwritten.
		res, err := conn.ExecContext(ctx, `
			UPDATE draft_entries SET status = ?, updated_at = ?
			WHERE fingerprint = ? AND status IN (?, ?)
		`, types.StatusSubmitted, entry.CreatedAt, entry.Fingerprint,
			types.StatusPending, types.StatusInProgress)
		if err != nil {
			return fmt.Errorf("failed to mark draft submitted: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check draft update: %w", err)
		}
		if n == 0 {
			var current types.Status
			err := conn.QueryRowContext(ctx,
				`SELECT status FROM draft_entries WHERE fingerprint = ?`, entry.Fingerprint).Scan(&current)
			if err == sql.ErrNoRows {
				return fmt.Errorf("draft %s: %w", entry.Fingerprint, types.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to read draft status: %w", err)
			}
			return fmt.Errorf("cannot confirm %s draft %s: %w", current, entry.Fingerprint, types.ErrConflict)
		}
		return nil
	})
}

// GetConfirmed retrieves a confirmed entry by id. Returns nil when absent.
func (s *Store) GetConfirmed(ctx context.Context, confirmedID string) (*types.ConfirmedEntry, error) {
	var e types.ConfirmedEntry
	err := s.db.QueryRowContext(ctx,
		"SELECT "+confirmedColumns+" FROM confirmed_entries WHERE id = ?", confirmedID,
	).Scan(
		&e.ID, &e.Fingerprint, &e.Date, &e.Application, &e.Task,
		&e.Units, &e.MatterCode, &e.Notes, &e.Status, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmed entry: %w", err)
	}
	return &e, nil
}

// ListConfirmed returns confirmed entries, optionally for a single date.
func (s *Store) ListConfirmed(ctx context.Context, date string) ([]types.ConfirmedEntry, error) {
	query := "SELECT " + confirmedColumns + " FROM confirmed_entries ORDER BY entry_date DESC, created_at DESC"
	args := []interface{}{}
	if date != "" {
		query = "SELECT " + confirmedColumns + " FROM confirmed_entries WHERE entry_date = ? ORDER BY created_at DESC"
		args = append(args, date)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed entries: %w", err)
	}
	defer rows.Close()

	var entries []types.ConfirmedEntry
	for rows.Next() {
		var e types.ConfirmedEntry
		err := rows.Scan(
			&e.ID, &e.Fingerprint, &e.Date, &e.Application, &e.Task,
			&e.Units, &e.MatterCode, &e.Notes, &e.Status, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan confirmed entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RevertConfirmed deletes a confirmed entry and resets the linked draft to
// pending, in one transaction. Returns the linked fingerprint, or "" when
// the id is unknown.
func (s *Store) RevertConfirmed(ctx context.Context, confirmedID string) (string, error) {
	var fingerprint string
	err := s.withImmediateTx(ctx, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx,
			`SELECT fingerprint FROM confirmed_entries WHERE id = ?`, confirmedID,
		).Scan(&fingerprint)
		if err == sql.ErrNoRows {
			fingerprint = ""
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up confirmed entry: %w", err)
		}

		if _, err := conn.ExecContext(ctx, `DELETE FROM confirmed_entries WHERE id = ?`, confirmedID); err != nil {
			return fmt.Errorf("failed to delete confirmed entry: %w", err)
		}
		if _, err := conn.ExecContext(ctx, `
			UPDATE draft_entries SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE fingerprint = ?
		`, types.StatusPending, fingerprint); err != nil {
			return fmt.Errorf("failed to reset draft status: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fingerprint, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
