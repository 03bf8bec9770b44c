package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkeller/billable/internal/aggregate"
	"github.com/mkeller/billable/internal/identity"
	"github.com/mkeller/billable/internal/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testGroup(date, task string, seconds int) aggregate.Group {
	return aggregate.Group{
		Date:        date,
		Application: "Microsoft Word",
		Task:        task,
		Seconds:     seconds,
		Units:       aggregate.Units(seconds),
	}
}

func TestReplaceDay(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := []types.ActivityRecord{
		{Date: "2025-01-14", Application: "Microsoft Word", Title: "Draft_A.docx", Seconds: 100},
		{Date: "2025-01-14", Application: "Preview", Title: "Exhibit_1.pdf", Seconds: 50},
	}
	if err := s.ReplaceDay(ctx, "2025-01-14", first); err != nil {
		t.Fatalf("ReplaceDay failed: %v", err)
	}

	got, err := s.GetDay(ctx, "2025-01-14")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].Seconds < got[1].Seconds {
		t.Error("rows should be ordered by seconds descending")
	}

	// Re-fetch replaces, never appends.
	second := []types.ActivityRecord{
		{Date: "2025-01-14", Application: "Microsoft Word", Title: "Draft_A.docx", Seconds: 900},
	}
	if err := s.ReplaceDay(ctx, "2025-01-14", second); err != nil {
		t.Fatalf("second ReplaceDay failed: %v", err)
	}
	got, err = s.GetDay(ctx, "2025-01-14")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if len(got) != 1 || got[0].Seconds != 900 {
		t.Errorf("replace semantics violated: %+v", got)
	}
}

func TestReplaceDayRejectsMismatchedDates(t *testing.T) {
	s := testStore(t)
	rows := []types.ActivityRecord{
		{Date: "2025-01-15", Application: "Word", Title: "x", Seconds: 10},
	}
	err := s.ReplaceDay(context.Background(), "2025-01-14", rows)
	if !types.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestReplaceDayEmptyClearsDate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rows := []types.ActivityRecord{
		{Date: "2025-01-14", Application: "Word", Title: "Draft.docx", Seconds: 10},
	}
	if err := s.ReplaceDay(ctx, "2025-01-14", rows); err != nil {
		t.Fatalf("ReplaceDay failed: %v", err)
	}
	if err := s.ReplaceDay(ctx, "2025-01-14", nil); err != nil {
		t.Fatalf("empty ReplaceDay failed: %v", err)
	}
	got, err := s.GetDay(ctx, "2025-01-14")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty day, got %d rows", len(got))
	}
}

func TestReconcileDayInsertsAndUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := testGroup("2025-01-14", "Contract_Review_22069.docx", 450)
	g.MatterCode = "22069"

	drafts, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g})
	if err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}

	d := drafts[0]
	wantFP := identity.Fingerprint(g.Date, g.Application, g.Task)
	if d.Fingerprint != wantFP {
		t.Errorf("fingerprint = %s, want %s", d.Fingerprint, wantFP)
	}
	if d.Status != types.StatusPending || d.Units != 1.3 || d.MatterCode != "22069" {
		t.Errorf("unexpected new draft: %+v", d)
	}

	// Second reconcile with more tracked time updates totals in place.
	g.Seconds = 900
	g.Units = aggregate.Units(900)
	drafts, err = s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g})
	if err != nil {
		t.Fatalf("second ReconcileDay failed: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Seconds != 900 {
		t.Errorf("expected updated totals, got %+v", drafts)
	}

	stored, err := s.GetDraft(ctx, wantFP)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if stored == nil || stored.Seconds != 900 || stored.Units != 2.5 {
		t.Errorf("stored draft not updated: %+v", stored)
	}
}

func TestReconcileDayPreservesReviewerEdits(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := testGroup("2025-01-14", "Long memo on discovery strategy", 450)
	if _, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g}); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	fp := identity.Fingerprint(g.Date, g.Application, g.Task)

	err := s.UpdateDraft(ctx, fp, map[string]interface{}{
		"notes":       "bill half to co-counsel",
		"matter_code": "30001",
		"status":      types.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	g.Seconds = 1200
	g.Units = aggregate.Units(1200)
	if _, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g}); err != nil {
		t.Fatalf("second ReconcileDay failed: %v", err)
	}

	d, err := s.GetDraft(ctx, fp)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if d.Seconds != 1200 {
		t.Errorf("seconds = %d, want 1200", d.Seconds)
	}
	if d.Notes != "bill half to co-counsel" || d.MatterCode != "30001" || d.Status != types.StatusInProgress {
		t.Errorf("reviewer edits lost on reprocess: %+v", d)
	}
}

func TestUpdateDraftValidation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.UpdateDraft(ctx, "missing", map[string]interface{}{"notes": "x"}); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	g := testGroup("2025-01-14", "Long memo on discovery strategy", 100)
	if _, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g}); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	fp := identity.Fingerprint(g.Date, g.Application, g.Task)

	if err := s.UpdateDraft(ctx, fp, map[string]interface{}{"total_seconds": 1}); err == nil {
		t.Error("reconciler-owned field must be rejected")
	}
	if err := s.UpdateDraft(ctx, fp, map[string]interface{}{"status": "bogus"}); err == nil {
		t.Error("invalid status must be rejected")
	}
}

func TestUpdateDraftStatusTransitions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := testGroup("2025-01-14", "Long memo on discovery strategy", 100)
	if _, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g}); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	fp := identity.Fingerprint(g.Date, g.Application, g.Task)

	// Submitted is only reachable through confirmation, never by edit.
	err := s.UpdateDraft(ctx, fp, map[string]interface{}{"status": types.StatusSubmitted})
	if !errors.Is(err, types.ErrConflict) {
		t.Errorf("marking submitted via update: expected ErrConflict, got %v", err)
	}

	if err := s.SetDraftStatus(ctx, fp, types.StatusIgnored); err != nil {
		t.Fatalf("SetDraftStatus failed: %v", err)
	}

	// Ignored is terminal; edits cannot reopen it.
	err = s.UpdateDraft(ctx, fp, map[string]interface{}{"status": types.StatusPending})
	if !errors.Is(err, types.ErrConflict) {
		t.Errorf("reopening ignored draft: expected ErrConflict, got %v", err)
	}
	err = s.UpdateDraft(ctx, fp, map[string]interface{}{"status": types.StatusInProgress})
	if !errors.Is(err, types.ErrConflict) {
		t.Errorf("ignored to in_progress: expected ErrConflict, got %v", err)
	}

	d, err := s.GetDraft(ctx, fp)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if d.Status != types.StatusIgnored {
		t.Errorf("status = %s, want ignored after rejected updates", d.Status)
	}

	// Re-asserting the current status and editing other human fields
	// still work on a terminal draft.
	if err := s.UpdateDraft(ctx, fp, map[string]interface{}{"status": types.StatusIgnored}); err != nil {
		t.Errorf("same-status update should be a no-op, got %v", err)
	}
	if err := s.UpdateDraft(ctx, fp, map[string]interface{}{"notes": "personal"}); err != nil {
		t.Errorf("notes update on ignored draft failed: %v", err)
	}
}

func TestConfirmDraftRequiresConfirmableStatus(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := testGroup("2025-01-14", "Long memo on discovery strategy", 100)
	if _, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g}); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	fp := identity.Fingerprint(g.Date, g.Application, g.Task)
	if err := s.SetDraftStatus(ctx, fp, types.StatusIgnored); err != nil {
		t.Fatalf("SetDraftStatus failed: %v", err)
	}

	// The stored status decides, not whatever the caller read earlier:
	// confirming an ignored draft fails inside the transaction.
	entry := &types.ConfirmedEntry{
		ID:          uuid.NewString(),
		Fingerprint: fp,
		Date:        g.Date,
		Application: g.Application,
		Task:        g.Task,
		Units:       0.3,
		Status:      types.StatusSubmitted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ConfirmDraft(ctx, entry); !errors.Is(err, types.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	d, err := s.GetDraft(ctx, fp)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if d.Status != types.StatusIgnored {
		t.Errorf("status = %s, want ignored after failed confirm", d.Status)
	}
	if got, err := s.GetConfirmed(ctx, entry.ID); err != nil || got != nil {
		t.Errorf("failed confirm must leave no snapshot, got %+v (err %v)", got, err)
	}
}

func TestListDrafts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	groups := []aggregate.Group{
		testGroup("2025-01-14", "Alpha review of closing checklist", 100),
		testGroup("2025-01-14", "Beta review of closing checklist", 700),
	}
	if _, err := s.ReconcileDay(ctx, "2025-01-14", groups); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	other := testGroup("2025-01-15", "Gamma review of closing checklist", 50)
	if _, err := s.ReconcileDay(ctx, "2025-01-15", []aggregate.Group{other}); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}

	all, err := s.ListDrafts(ctx, types.DraftFilter{})
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d drafts, want 3", len(all))
	}
	if all[0].Seconds != 700 {
		t.Error("drafts should be ordered by duration descending")
	}

	day, err := s.ListDrafts(ctx, types.DraftFilter{Date: "2025-01-14"})
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(day) != 2 {
		t.Errorf("date filter: got %d drafts, want 2", len(day))
	}

	fp := day[1].Fingerprint
	if err := s.SetDraftStatus(ctx, fp, types.StatusIgnored); err != nil {
		t.Fatalf("SetDraftStatus failed: %v", err)
	}
	ignored := types.StatusIgnored
	byStatus, err := s.ListDrafts(ctx, types.DraftFilter{Status: &ignored})
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].Fingerprint != fp {
		t.Errorf("status filter: %+v", byStatus)
	}

	limited, err := s.ListDrafts(ctx, types.DraftFilter{Limit: 1})
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d drafts, want 1", len(limited))
	}
}

func TestConfirmDraftLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := testGroup("2025-01-14", "Contract_Review_22069.docx", 450)
	if _, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g}); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	fp := identity.Fingerprint(g.Date, g.Application, g.Task)

	entry := &types.ConfirmedEntry{
		ID:          uuid.NewString(),
		Fingerprint: fp,
		Date:        g.Date,
		Application: g.Application,
		Task:        g.Task,
		Units:       1.3,
		MatterCode:  "22069",
		Status:      types.StatusSubmitted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ConfirmDraft(ctx, entry); err != nil {
		t.Fatalf("ConfirmDraft failed: %v", err)
	}

	d, err := s.GetDraft(ctx, fp)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if d.Status != types.StatusSubmitted {
		t.Errorf("draft status = %s, want submitted", d.Status)
	}

	got, err := s.GetConfirmed(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetConfirmed failed: %v", err)
	}
	if got == nil || got.Fingerprint != fp || got.Units != 1.3 {
		t.Errorf("unexpected confirmed entry: %+v", got)
	}

	// A second snapshot for the same fingerprint conflicts.
	dup := *entry
	dup.ID = uuid.NewString()
	if err := s.ConfirmDraft(ctx, &dup); !errors.Is(err, types.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	listed, err := s.ListConfirmed(ctx, "2025-01-14")
	if err != nil {
		t.Fatalf("ListConfirmed failed: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("got %d confirmed entries, want 1", len(listed))
	}

	// Revert removes the snapshot and reopens the draft.
	fingerprint, err := s.RevertConfirmed(ctx, entry.ID)
	if err != nil {
		t.Fatalf("RevertConfirmed failed: %v", err)
	}
	if fingerprint != fp {
		t.Errorf("RevertConfirmed returned %s, want %s", fingerprint, fp)
	}
	d, err = s.GetDraft(ctx, fp)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if d.Status != types.StatusPending {
		t.Errorf("draft status = %s, want pending after revert", d.Status)
	}
	if got, err := s.GetConfirmed(ctx, entry.ID); err != nil || got != nil {
		t.Errorf("confirmed entry should be gone, got %+v (err %v)", got, err)
	}
}

func TestRevertConfirmedUnknownID(t *testing.T) {
	s := testStore(t)
	fp, err := s.RevertConfirmed(context.Background(), "nope")
	if err != nil {
		t.Fatalf("RevertConfirmed failed: %v", err)
	}
	if fp != "" {
		t.Errorf("expected empty fingerprint for unknown id, got %q", fp)
	}
}

func TestConfirmDraftUnknownFingerprint(t *testing.T) {
	s := testStore(t)
	entry := &types.ConfirmedEntry{
		ID:          uuid.NewString(),
		Fingerprint: "does-not-exist",
		Date:        "2025-01-14",
		Application: "Word",
		Task:        "x",
		Units:       0.1,
		Status:      types.StatusSubmitted,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.ConfirmDraft(context.Background(), entry); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRefreshState(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	state, err := s.GetRefreshState(ctx)
	if err != nil {
		t.Fatalf("GetRefreshState failed: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state on fresh database, got %+v", state)
	}

	at := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	if err := s.SetRefreshState(ctx, types.RefreshState{Date: "2025-01-14", UpdatedAt: at}); err != nil {
		t.Fatalf("SetRefreshState failed: %v", err)
	}

	state, err = s.GetRefreshState(ctx)
	if err != nil {
		t.Fatalf("GetRefreshState failed: %v", err)
	}
	if state == nil || state.Date != "2025-01-14" || !state.UpdatedAt.Equal(at) {
		t.Errorf("unexpected state: %+v", state)
	}

	// Setting again overwrites the singleton.
	later := at.Add(20 * time.Minute)
	if err := s.SetRefreshState(ctx, types.RefreshState{Date: "2025-01-14", UpdatedAt: later}); err != nil {
		t.Fatalf("second SetRefreshState failed: %v", err)
	}
	state, err = s.GetRefreshState(ctx)
	if err != nil {
		t.Fatalf("GetRefreshState failed: %v", err)
	}
	if !state.UpdatedAt.Equal(later) {
		t.Errorf("state not overwritten: %+v", state)
	}
}

func TestClearDrafts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	g := testGroup("2025-01-14", "Long memo on discovery strategy", 100)
	if _, err := s.ReconcileDay(ctx, "2025-01-14", []aggregate.Group{g}); err != nil {
		t.Fatalf("ReconcileDay failed: %v", err)
	}
	if err := s.ClearDrafts(ctx); err != nil {
		t.Fatalf("ClearDrafts failed: %v", err)
	}
	drafts, err := s.ListDrafts(ctx, types.DraftFilter{})
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("expected no drafts, got %d", len(drafts))
	}
}
