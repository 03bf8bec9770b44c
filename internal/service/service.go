// Package service orchestrates the pipeline: fetch raw activity, clean
// and aggregate it, reconcile it into draft entries, and drive the review
// lifecycle.
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mkeller/billable/internal/aggregate"
	"github.com/mkeller/billable/internal/canonical"
	"github.com/mkeller/billable/internal/lifecycle"
	"github.com/mkeller/billable/internal/refresh"
	"github.com/mkeller/billable/internal/sink"
	"github.com/mkeller/billable/internal/source"
	"github.com/mkeller/billable/internal/storage"
	"github.com/mkeller/billable/internal/types"
)

// Pipeline wires the activity source, storage and lifecycle together.
// The zero value is not usable; construct with New.
type Pipeline struct {
	store  storage.Storage
	source source.Client
	sink   sink.Client
	filter canonical.Filter

	// refreshGroup collapses concurrent auto-refresh attempts so the
	// source only sees one in-flight fetch per date.
	refreshGroup singleflight.Group
}

// New creates a pipeline. The sink client may be nil when downstream
// submission is not configured.
func New(store storage.Storage, src source.Client, snk sink.Client, filter canonical.Filter) *Pipeline {
	return &Pipeline{store: store, source: src, sink: snk, filter: filter}
}

// Ingest fetches one date's raw activity and replaces that date's rows in
// the log. It does not reconcile; callers that want drafts updated follow
// with Process.
func (p *Pipeline) Ingest(ctx context.Context, date string) (int, error) {
	if p.source == nil {
		return 0, fmt.Errorf("no activity source configured: %w", types.ErrSourceUnavailable)
	}
	rows, err := p.source.FetchDay(ctx, date)
	if err != nil {
		return 0, err
	}
	if err := p.store.ReplaceDay(ctx, date, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// IngestRange fetches each date in [from, to] inclusive. Dates are
// processed oldest first; the first failure stops the range.
func (p *Pipeline) IngestRange(ctx context.Context, from, to string) (int, error) {
	start, err := time.Parse(types.DateFormat, from)
	if err != nil {
		return 0, &types.ValidationError{Field: "from", Reason: "expected YYYY-MM-DD"}
	}
	end, err := time.Parse(types.DateFormat, to)
	if err != nil {
		return 0, &types.ValidationError{Field: "to", Reason: "expected YYYY-MM-DD"}
	}
	if end.Before(start) {
		return 0, &types.ValidationError{Field: "to", Reason: "end date precedes start date"}
	}

	total := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		n, err := p.Ingest(ctx, d.Format(types.DateFormat))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Process re-aggregates one date's stored raw activity and reconciles the
// result into draft entries. Existing human edits on matching drafts
// survive; only totals and units are refreshed.
func (p *Pipeline) Process(ctx context.Context, date string) ([]types.DraftEntry, error) {
	rows, err := p.store.GetDay(ctx, date)
	if err != nil {
		return nil, err
	}
	groups := aggregate.Aggregate(rows, p.filter)
	return p.store.ReconcileDay(ctx, date, groups)
}

// RowDecision records what cleaning did to one raw row.
type RowDecision struct {
	Application string
	Title       string
	Task        string
	Seconds     int
	Kept        bool
}

// Analysis describes what cleaning and filtering did to a date's rows,
// for review tooling.
type Analysis struct {
	TotalRows      int
	TotalSeconds   int
	KeptGroups     int
	KeptSeconds    int
	DroppedRows    int
	DroppedSeconds int
	Rows           []RowDecision
}

// Analyze reruns the cleaning stage over a date's raw rows and reports
// how much time the noise filter discarded, without touching drafts.
func (p *Pipeline) Analyze(ctx context.Context, date string) (*Analysis, error) {
	rows, err := p.store.GetDay(ctx, date)
	if err != nil {
		return nil, err
	}

	a := &Analysis{TotalRows: len(rows)}
	for _, row := range rows {
		a.TotalSeconds += row.Seconds
		task := canonical.Canonicalize(row.Title, row.Application)
		kept := row.Seconds > 0 && p.filter.Billable(task, row.Application)
		if kept {
			a.KeptSeconds += row.Seconds
		} else {
			a.DroppedRows++
			a.DroppedSeconds += row.Seconds
		}
		a.Rows = append(a.Rows, RowDecision{
			Application: row.Application,
			Title:       row.Title,
			Task:        task,
			Seconds:     row.Seconds,
			Kept:        kept,
		})
	}
	a.KeptGroups = len(aggregate.Aggregate(rows, p.filter))
	return a, nil
}

// Refresh ingests and processes one date as a single step.
func (p *Pipeline) Refresh(ctx context.Context, date string) ([]types.DraftEntry, error) {
	if _, err := p.Ingest(ctx, date); err != nil {
		return nil, err
	}
	return p.Process(ctx, date)
}

// AutoRefresh refreshes the current day if the guard interval allows it.
// Returns whether a refresh ran and the guard's reason. The refresh state
// is persisted only after both fetch and reconcile succeed, so a failure
// never suppresses the next attempt. Concurrent calls for the same date
// share one fetch.
func (p *Pipeline) AutoRefresh(ctx context.Context, now time.Time, interval time.Duration, force bool) (bool, string, error) {
	if interval <= 0 {
		interval = refresh.DefaultInterval
	}
	last, err := p.store.GetRefreshState(ctx)
	if err != nil {
		return false, "", err
	}
	ok, reason := refresh.ShouldRefresh(now, last, interval, force)
	if !ok {
		return false, reason, nil
	}

	date := now.Format(types.DateFormat)
	_, err, _ = p.refreshGroup.Do(date, func() (interface{}, error) {
		if _, err := p.Refresh(ctx, date); err != nil {
			return nil, err
		}
		return nil, p.store.SetRefreshState(ctx, types.RefreshState{Date: date, UpdatedAt: now})
	})
	if err != nil {
		return false, reason, err
	}
	return true, reason, nil
}

// Drafts lists draft entries matching the filter.
func (p *Pipeline) Drafts(ctx context.Context, filter types.DraftFilter) ([]types.DraftEntry, error) {
	return p.store.ListDrafts(ctx, filter)
}

// UpdateDraft applies reviewer edits (notes, matter code, status) to a
// draft without changing its lifecycle state machine position.
func (p *Pipeline) UpdateDraft(ctx context.Context, fingerprint string, updates map[string]interface{}) error {
	return p.store.UpdateDraft(ctx, fingerprint, updates)
}

// Confirm snapshots a draft into a confirmed entry.
func (p *Pipeline) Confirm(ctx context.Context, fingerprint string, edits *types.EntryEdits) (*types.ConfirmedEntry, error) {
	return lifecycle.Confirm(ctx, p.store, fingerprint, edits, time.Now().UTC())
}

// Ignore marks a draft as not billable.
func (p *Pipeline) Ignore(ctx context.Context, fingerprint string) error {
	return lifecycle.Ignore(ctx, p.store, fingerprint)
}

// Start marks a draft as in review.
func (p *Pipeline) Start(ctx context.Context, fingerprint string) error {
	return lifecycle.Start(ctx, p.store, fingerprint)
}

// Revert undoes a confirmation, deleting the snapshot and returning the
// linked draft to pending.
func (p *Pipeline) Revert(ctx context.Context, confirmedID string) error {
	return lifecycle.Revert(ctx, p.store, confirmedID)
}

// Confirmed lists confirmed entries, optionally for one date.
func (p *Pipeline) Confirmed(ctx context.Context, date string) ([]types.ConfirmedEntry, error) {
	return p.store.ListConfirmed(ctx, date)
}

// Submit pushes a confirmed entry to the downstream practice-management
// system. Requires a configured sink.
func (p *Pipeline) Submit(ctx context.Context, confirmedID string) error {
	if p.sink == nil {
		return fmt.Errorf("no downstream sink configured: %w", types.ErrSourceUnavailable)
	}
	entry, err := p.store.GetConfirmed(ctx, confirmedID)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("confirmed entry %s: %w", confirmedID, types.ErrNotFound)
	}
	return p.sink.SubmitEntry(ctx, entry)
}

// ClearDrafts removes every draft entry. Confirmed snapshots and the raw
// log are untouched.
func (p *Pipeline) ClearDrafts(ctx context.Context) error {
	return p.store.ClearDrafts(ctx)
}

// Matters lists the billable matters the downstream system knows.
func (p *Pipeline) Matters(ctx context.Context) ([]sink.Matter, error) {
	if p.sink == nil {
		return nil, fmt.Errorf("no downstream sink configured: %w", types.ErrSourceUnavailable)
	}
	return p.sink.ListMatters(ctx)
}

// Outcomes lists the downstream billing outcome categories.
func (p *Pipeline) Outcomes(ctx context.Context) ([]sink.Outcome, error) {
	if p.sink == nil {
		return nil, fmt.Errorf("no downstream sink configured: %w", types.ErrSourceUnavailable)
	}
	return p.sink.ListOutcomes(ctx)
}

// Components lists a matter's downstream components.
func (p *Pipeline) Components(ctx context.Context, matterID string) ([]sink.Component, error) {
	if p.sink == nil {
		return nil, fmt.Errorf("no downstream sink configured: %w", types.ErrSourceUnavailable)
	}
	return p.sink.ListComponents(ctx, matterID)
}
