// Package refresh gates how often the current day may be re-fetched from
// the activity source.
package refresh

import (
	"fmt"
	"time"

	"github.com/mkeller/billable/internal/types"
)

// DefaultInterval is the minimum spacing between current-day fetches.
const DefaultInterval = 15 * time.Minute

// ShouldRefresh decides whether a current-day fetch may proceed, and why.
// A fetch is allowed when forced, when no previous update exists, when the
// last update was for a different day, or when the interval has elapsed.
//
// Callers must persist the new refresh state only after the fetch and
// reconcile succeed, so a failed fetch never suppresses the next attempt.
func ShouldRefresh(now time.Time, last *types.RefreshState, interval time.Duration, force bool) (bool, string) {
	if force {
		return true, "forced"
	}
	if last == nil {
		return true, "no previous current-day update"
	}
	today := now.Format(types.DateFormat)
	if last.Date != today {
		return true, fmt.Sprintf("last update was for %s, today is %s", last.Date, today)
	}
	elapsed := now.Sub(last.UpdatedAt)
	if elapsed >= interval {
		return true, fmt.Sprintf("last update was %.1f minutes ago", elapsed.Minutes())
	}
	return false, fmt.Sprintf("last update was only %.1f minutes ago (min interval: %s)", elapsed.Minutes(), interval)
}
