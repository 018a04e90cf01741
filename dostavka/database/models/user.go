package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DiscordID string `bun:"discord_id,notnull,unique"`
	Username  string `bun:"username,notnull"`

	// Delivery counters
	Deliveries int64 `bun:"deliveries,notnull,default:0"`
	Earnings   int64 `bun:"earnings,notnull,default:0"`
	Experience int64 `bun:"experience,notnull,default:0"`

	// Nil until the first delivery
	LastDeliveryAt *time.Time `bun:"last_delivery_at"`

	// Active buffs stored as JSONB, insertion order preserved
	ActiveBuffs []ActiveBuff `bun:"active_buffs,type:jsonb"`

	Blocked bool `bun:"blocked,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// ActiveBuff is a purchased buff instance owned by a user. Timestamps
// marshal as RFC 3339 so the JSONB column round-trips them losslessly.
type ActiveBuff struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Multiplier  float64   `json:"multiplier"`
	PurchasedAt time.Time `json:"purchased_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the buff no longer contributes at the given time.
func (b ActiveBuff) Expired(now time.Time) bool {
	return !b.ExpiresAt.After(now)
}
