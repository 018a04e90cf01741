package buffs

import (
	"time"

	"github.com/whitewenty/dostavka/dostavka/database/models"
)

// Sweep partitions buffs into live and expired at the given time and
// returns the live set in insertion order plus the number removed.
// Expiry is lazy: there is no scheduled eviction, any read sweeps.
func Sweep(active []models.ActiveBuff, now time.Time) (live []models.ActiveBuff, removed int) {
	live = active[:0:0]
	for _, b := range active {
		if b.Expired(now) {
			removed++
			continue
		}
		live = append(live, b)
	}
	return live, removed
}

// TotalMultiplier sums the multipliers of the given buffs. Buffs stack
// additively, not multiplicatively.
func TotalMultiplier(live []models.ActiveBuff) float64 {
	var total float64
	for _, b := range live {
		total += b.Multiplier
	}
	return total
}

// View is the display shape of a live buff.
type View struct {
	Name             string  `json:"name"`
	Multiplier       float64 `json:"multiplier"`
	RemainingMinutes int     `json:"remaining_minutes"`
	RemainingSeconds int     `json:"remaining_seconds"`
}

// BuildView formats the live buffs for display. Remaining time is
// floor-divided into whole minutes and leftover seconds.
func BuildView(live []models.ActiveBuff, now time.Time) []View {
	views := make([]View, 0, len(live))
	for _, b := range live {
		remaining := b.ExpiresAt.Sub(now)
		totalSeconds := int(remaining.Seconds())
		views = append(views, View{
			Name:             b.Name,
			Multiplier:       b.Multiplier,
			RemainingMinutes: totalSeconds / 60,
			RemainingSeconds: totalSeconds % 60,
		})
	}
	return views
}
