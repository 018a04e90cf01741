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

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	GetUsers(ctx context.Context) ([]*models.User, error)
	GetTopByDeliveries(ctx context.Context, limit int) ([]*models.User, error)
	AggregateTotals(ctx context.Context) (users, deliveries, earnings int64, err error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		slog.Error("Database error when getting user",
			slog.String("type", "db"),
			slog.String("operation", "GetByDiscordID"),
			slog.String("discord_id", discordID),
			slog.String("error", err.Error()))
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}

func (r *userRepository) GetUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Order("id ASC").
		Scan(ctx)

	if err != nil {
		slog.Error("Database error when getting all users",
			slog.String("type", "db"),
			slog.String("operation", "GetUsers"),
			slog.String("error", err.Error()))
		return nil, err
	}
	return users, nil
}

// GetTopByDeliveries returns users ordered by delivery count. Ties keep
// insertion order via the secondary id sort.
func (r *userRepository) GetTopByDeliveries(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		OrderExpr("deliveries DESC").
		OrderExpr("id ASC").
		Limit(limit).
		Scan(ctx)
	return users, err
}

func (r *userRepository) AggregateTotals(ctx context.Context) (int64, int64, int64, error) {
	var totals struct {
		Users      int64 `bun:"users"`
		Deliveries int64 `bun:"deliveries"`
		Earnings   int64 `bun:"earnings"`
	}
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		ColumnExpr("count(*) AS users").
		ColumnExpr("coalesce(sum(deliveries), 0) AS deliveries").
		ColumnExpr("coalesce(sum(earnings), 0) AS earnings").
		Scan(ctx, &totals)
	if err != nil {
		return 0, 0, 0, err
	}
	return totals.Users, totals.Deliveries, totals.Earnings, nil
}
