package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/whitewenty/dostavka/dostavka/database/models"
)

var ErrAdminNotFound = errors.New("admin not found")

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.Admin, error)
	EnsureDefaultAdmin(ctx context.Context, discordID, name string) error
}

type adminRepository struct {
	db *bun.DB
}

func NewAdminRepository(db *bun.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(admin).Exec(ctx)
	return err
}

func (r *adminRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.Admin, error) {
	admin := new(models.Admin)
	err := r.db.NewSelect().
		Model(admin).
		Where("discord_id = ?", discordID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}

// EnsureDefaultAdmin seeds the owner account on first start so admin
// commands are usable before anyone can grant permissions.
func (r *adminRepository) EnsureDefaultAdmin(ctx context.Context, discordID, name string) error {
	if discordID == "" {
		return nil
	}

	_, err := r.GetByDiscordID(ctx, discordID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return err
	}

	admin := &models.Admin{
		DiscordID:   discordID,
		Name:        name,
		Role:        models.RoleOwner,
		Permissions: models.FullPermissions(),
		AddedBy:     "system",
	}
	if err := r.Create(ctx, admin); err != nil {
		return err
	}

	slog.Info("Default admin created",
		slog.String("type", "db"),
		slog.String("discord_id", discordID))
	return nil
}
