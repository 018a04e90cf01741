package admin

import (
	"context"
	"errors"

	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
)

var errNotPermitted = errors.New("not permitted")

// authorize checks that the caller is an admin holding the permission
// selected by allowed. Unknown callers and missing permissions both map
// to errNotPermitted so the reply does not leak who is an admin.
func authorize(ctx context.Context, b *dostavka.Bot, userID string, allowed func(models.Permissions) bool) error {
	admin, err := b.AdminRepository.GetByDiscordID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return errNotPermitted
		}
		return err
	}
	if !allowed(admin.Permissions) {
		return errNotPermitted
	}
	return nil
}

const noPermissionMessage = "🚫 У вас нет прав на это действие."
