package refresh

import (
	"testing"
	"time"

	"github.com/mkeller/billable/internal/types"
)

var now = time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)

func TestShouldRefresh(t *testing.T) {
	tests := []struct {
		name  string
		last  *types.RefreshState
		force bool
		want  bool
	}{
		{
			name: "no previous state",
			last: nil,
			want: true,
		},
		{
			name: "interval elapsed",
			last: &types.RefreshState{Date: "2025-01-14", UpdatedAt: now.Add(-16 * time.Minute)},
			want: true,
		},
		{
			name: "exactly at interval",
			last: &types.RefreshState{Date: "2025-01-14", UpdatedAt: now.Add(-15 * time.Minute)},
			want: true,
		},
		{
			name: "within interval",
			last: &types.RefreshState{Date: "2025-01-14", UpdatedAt: now.Add(-5 * time.Minute)},
			want: false,
		},
		{
			name: "day rolled over",
			last: &types.RefreshState{Date: "2025-01-13", UpdatedAt: now.Add(-2 * time.Minute)},
			want: true,
		},
		{
			name:  "forced within interval",
			last:  &types.RefreshState{Date: "2025-01-14", UpdatedAt: now.Add(-1 * time.Minute)},
			force: true,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ShouldRefresh(now, tt.last, DefaultInterval, tt.force)
			if got != tt.want {
				t.Errorf("ShouldRefresh = %v (%s), want %v", got, reason, tt.want)
			}
			if reason == "" {
				t.Error("reason must never be empty")
			}
		})
	}
}
