package buffs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whitewenty/dostavka/dostavka/database/models"
)

func buffExpiring(name string, mult float64, expiresAt time.Time) models.ActiveBuff {
	return models.ActiveBuff{
		ID:         name,
		Name:       name,
		Multiplier: mult,
		ExpiresAt:  expiresAt,
	}
}

func TestSweep(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		active      []models.ActiveBuff
		wantLive    int
		wantRemoved int
	}{
		{
			name:        "empty",
			active:      nil,
			wantLive:    0,
			wantRemoved: 0,
		},
		{
			name: "all live",
			active: []models.ActiveBuff{
				buffExpiring("a", 0.5, now.Add(time.Minute)),
				buffExpiring("b", 0.15, now.Add(time.Hour)),
			},
			wantLive:    2,
			wantRemoved: 0,
		},
		{
			name: "expired dropped",
			active: []models.ActiveBuff{
				buffExpiring("a", 0.5, now.Add(-time.Second)),
				buffExpiring("b", 0.15, now.Add(time.Minute)),
			},
			wantLive:    1,
			wantRemoved: 1,
		},
		{
			name: "boundary expires_at equal now counts as expired",
			active: []models.ActiveBuff{
				buffExpiring("a", 0.5, now),
			},
			wantLive:    0,
			wantRemoved: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live, removed := Sweep(tt.active, now)
			assert.Len(t, live, tt.wantLive)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}

func TestSweep_KeepsInsertionOrder(t *testing.T) {
	now := time.Now()
	active := []models.ActiveBuff{
		buffExpiring("first", 0.5, now.Add(time.Minute)),
		buffExpiring("gone", 0.1, now.Add(-time.Minute)),
		buffExpiring("second", 0.25, now.Add(time.Hour)),
	}

	live, removed := Sweep(active, now)

	require.Len(t, live, 2)
	assert.Equal(t, 1, removed)
	assert.Equal(t, "first", live[0].Name)
	assert.Equal(t, "second", live[1].Name)
}

func TestTotalMultiplier_Additive(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0.0, TotalMultiplier(nil))

	live := []models.ActiveBuff{
		buffExpiring("a", 0.5, now.Add(time.Minute)),
		buffExpiring("b", 0.15, now.Add(time.Minute)),
		buffExpiring("b again", 0.15, now.Add(time.Minute)),
	}
	assert.InDelta(t, 0.8, TotalMultiplier(live), 1e-9)
}

func TestBuildView(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	live := []models.ActiveBuff{
		buffExpiring("Гипер Бафф", 0.5, now.Add(90*time.Second)),
	}

	views := BuildView(live, now)

	require.Len(t, views, 1)
	assert.Equal(t, "Гипер Бафф", views[0].Name)
	assert.Equal(t, 0.5, views[0].Multiplier)
	assert.Equal(t, 1, views[0].RemainingMinutes)
	assert.Equal(t, 30, views[0].RemainingSeconds)
}
