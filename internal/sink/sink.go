// Package sink submits confirmed entries to the practice-management
// system's time-entry API.
package sink

import (
	"context"

	"github.com/mkeller/billable/internal/types"
)

// Matter is a billable matter as the practice-management system knows it.
type Matter struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Outcome is a billing outcome category (e.g. drafting, correspondence).
type Outcome struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Component is a matter sub-component entries can be booked against.
type Component struct {
	ID       string `json:"id"`
	MatterID string `json:"matter_id"`
	Name     string `json:"name"`
}

// Client pushes confirmed entries downstream and resolves matter codes,
// outcomes and components against the practice-management system.
type Client interface {
	SubmitEntry(ctx context.Context, entry *types.ConfirmedEntry) error
	ListMatters(ctx context.Context) ([]Matter, error)
	FindMatter(ctx context.Context, code string) (*Matter, error)
	ListOutcomes(ctx context.Context) ([]Outcome, error)
	ListComponents(ctx context.Context, matterID string) ([]Component, error)
}
