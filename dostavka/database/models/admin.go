package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID          int64       `bun:"id,pk,autoincrement"`
	DiscordID   string      `bun:"discord_id,notnull,unique"`
	Name        string      `bun:"name,notnull"`
	Role        string      `bun:"role,notnull"`
	Permissions Permissions `bun:"permissions,type:jsonb"`
	AddedBy     string      `bun:"added_by,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type Permissions struct {
	BlockUsers   bool `json:"block_users"`
	AddMoney     bool `json:"add_money"`
	RemoveMoney  bool `json:"remove_money"`
	GiveItems    bool `json:"give_items"`
	Broadcast    bool `json:"broadcast"`
	ViewUsers    bool `json:"view_users"`
	ManageAdmins bool `json:"manage_admins"`
}

// Admin roles
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

// FullPermissions is the permission set granted to the seeded owner.
func FullPermissions() Permissions {
	return Permissions{
		BlockUsers:   true,
		AddMoney:     true,
		RemoveMoney:  true,
		GiveItems:    true,
		Broadcast:    true,
		ViewUsers:    true,
		ManageAdmins: true,
	}
}
