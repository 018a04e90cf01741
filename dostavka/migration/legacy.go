package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"log/slog"

	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
)

// legacyUser mirrors the old JSON-file document: one object per user,
// keyed by stringified Discord id, ISO-8601 timestamps.
type legacyUser struct {
	Username        string       `json:"username"`
	TotalDeliveries int64        `json:"total_deliveries"`
	TotalEarnings   int64        `json:"total_earnings"`
	Experience      int64        `json:"experience"`
	LastDelivery    *string      `json:"last_delivery"`
	ActiveBuffs     []legacyBuff `json:"active_buffs"`
}

type legacyBuff struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Multiplier  float64 `json:"multiplier"`
	PurchasedAt string  `json:"purchased_at"`
	ExpiresAt   string  `json:"expires_at"`
}

type ImportStats struct {
	Imported int
	Skipped  int
	Failed   int
}

// Importer performs a one-shot import of the legacy JSON data file into
// Postgres. Users that already exist are left untouched.
type Importer struct {
	repo repositories.UserRepository
}

func NewImporter(repo repositories.UserRepository) *Importer {
	return &Importer{repo: repo}
}

func (i *Importer) ImportFile(ctx context.Context, path string) (ImportStats, error) {
	var stats ImportStats

	raw, err := os.ReadFile(path)
	if err != nil {
		return stats, fmt.Errorf("read legacy data file: %w", err)
	}

	var legacy map[string]legacyUser
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return stats, fmt.Errorf("parse legacy data file: %w", err)
	}

	start := time.Now()
	for discordID, entry := range legacy {
		if err := i.importUser(ctx, discordID, entry); err != nil {
			if errors.Is(err, errAlreadyExists) {
				stats.Skipped++
				continue
			}
			stats.Failed++
			slog.Error("Failed to import legacy user",
				slog.String("type", "db"),
				slog.String("discord_id", discordID),
				slog.Any("error", err))
			continue
		}
		stats.Imported++
	}

	slog.Info("Legacy import finished",
		slog.String("type", "db"),
		slog.Int("imported", stats.Imported),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Duration("took", time.Since(start)))
	return stats, nil
}

var errAlreadyExists = errors.New("user already exists")

func (i *Importer) importUser(ctx context.Context, discordID string, entry legacyUser) error {
	_, err := i.repo.GetByDiscordID(ctx, discordID)
	if err == nil {
		return errAlreadyExists
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return err
	}

	username := entry.Username
	if username == "" {
		username = "Unknown"
	}

	user := &models.User{
		DiscordID:   discordID,
		Username:    username,
		Deliveries:  entry.TotalDeliveries,
		Earnings:    entry.TotalEarnings,
		Experience:  entry.Experience,
		ActiveBuffs: make([]models.ActiveBuff, 0, len(entry.ActiveBuffs)),
	}

	if entry.LastDelivery != nil {
		if ts, ok := parseLegacyTime(*entry.LastDelivery); ok {
			user.LastDeliveryAt = &ts
		}
	}

	for _, buff := range entry.ActiveBuffs {
		expiresAt, ok := parseLegacyTime(buff.ExpiresAt)
		if !ok {
			continue
		}
		purchasedAt, ok := parseLegacyTime(buff.PurchasedAt)
		if !ok {
			purchasedAt = expiresAt
		}
		user.ActiveBuffs = append(user.ActiveBuffs, models.ActiveBuff{
			ID:          buff.ID,
			Name:        buff.Name,
			Multiplier:  buff.Multiplier,
			PurchasedAt: purchasedAt,
			ExpiresAt:   expiresAt,
		})
	}

	return i.repo.Create(ctx, user)
}

// parseLegacyTime accepts both RFC 3339 and the offset-less ISO form the
// old implementation wrote.
func parseLegacyTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
