package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanDeliver(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		lastDelivery  *time.Time
		wantAllowed   bool
		wantRemaining time.Duration
	}{
		{
			name:          "never delivered",
			lastDelivery:  nil,
			wantAllowed:   true,
			wantRemaining: 0,
		},
		{
			name:          "just delivered",
			lastDelivery:  ptr(now),
			wantAllowed:   false,
			wantRemaining: 2 * time.Minute,
		},
		{
			name:          "halfway through cooldown",
			lastDelivery:  ptr(now.Add(-90 * time.Second)),
			wantAllowed:   false,
			wantRemaining: 30 * time.Second,
		},
		{
			name:          "cooldown exactly elapsed",
			lastDelivery:  ptr(now.Add(-2 * time.Minute)),
			wantAllowed:   true,
			wantRemaining: 0,
		},
		{
			name:          "long after cooldown",
			lastDelivery:  ptr(now.Add(-time.Hour)),
			wantAllowed:   true,
			wantRemaining: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, remaining := CanDeliver(tt.lastDelivery, now)
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantRemaining, remaining)
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
