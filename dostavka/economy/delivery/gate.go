package delivery

import "time"

// Cooldown is the minimum interval between a user's successive deliveries.
const Cooldown = 2 * time.Minute

// CanDeliver reports whether a delivery is permitted at now given the last
// delivery timestamp, and the remaining wait otherwise. A nil timestamp
// means the user has never delivered. Pure read, no state mutation.
func CanDeliver(lastDeliveryAt *time.Time, now time.Time) (bool, time.Duration) {
	if lastDeliveryAt == nil {
		return true, 0
	}

	elapsed := now.Sub(*lastDeliveryAt)
	if elapsed < Cooldown {
		return false, Cooldown - elapsed
	}
	return true, 0
}
