// Package source fetches raw activity records from the time-tracking
// service's analytic data API.
package source

import (
	"context"

	"github.com/mkeller/billable/internal/types"
)

// Client retrieves the raw activity log for a single day. Implementations
// must return records whose Date matches the requested date.
type Client interface {
	FetchDay(ctx context.Context, date string) ([]types.ActivityRecord, error)
}
