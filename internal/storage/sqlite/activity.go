package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkeller/billable/internal/types"
)

// ReplaceDay replaces all raw activity rows for one date. Clear and insert
// run in a single immediate transaction so a concurrent aggregation never
// observes a partially cleared date.
func (s *Store) ReplaceDay(ctx context.Context, date string, rows []types.ActivityRecord) error {
	if !types.ValidDate(date) {
		return &types.ValidationError{Field: "log_date", Reason: fmt.Sprintf("not a YYYY-MM-DD date: %q", date)}
	}
	for i := range rows {
		if rows[i].Date != date {
			return &types.ValidationError{Field: "log_date", Reason: fmt.Sprintf("row date %q does not match %q", rows[i].Date, date)}
		}
		if err := rows[i].Validate(); err != nil {
			return err
		}
	}

	return s.withImmediateTx(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, `DELETE FROM activity_log WHERE log_date = ?`, date); err != nil {
			return fmt.Errorf("failed to clear activity log for %s: %w", date, err)
		}
		for _, row := range rows {
			_, err := conn.ExecContext(ctx, `
				INSERT INTO activity_log (log_date, application, title, seconds, category, productivity)
				VALUES (?, ?, ?, ?, ?, ?)
			`, row.Date, row.Application, row.Title, row.Seconds, row.Category, row.Productivity)
			if err != nil {
				return fmt.Errorf("failed to insert activity row: %w", err)
			}
		}
		return nil
	})
}

// GetDay returns all raw activity rows stored for a date.
func (s *Store) GetDay(ctx context.Context, date string) ([]types.ActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT log_date, application, title, seconds, category, productivity
		FROM activity_log
		WHERE log_date = ?
		ORDER BY seconds DESC, application, title
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	var records []types.ActivityRecord
	for rows.Next() {
		var r types.ActivityRecord
		if err := rows.Scan(&r.Date, &r.Application, &r.Title, &r.Seconds, &r.Category, &r.Productivity); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
