package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var Block = discord.SlashCommandCreate{
	Name:        "block",
	Description: "🚫 Заблокировать пользователя",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Кого заблокировать",
			Required:    true,
		},
	},
}

var Unblock = discord.SlashCommandCreate{
	Name:        "unblock",
	Description: "✅ Разблокировать пользователя",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Кого разблокировать",
			Required:    true,
		},
	},
}

func BlockHandler(b *dostavka.Bot) handler.CommandHandler {
	return setBlockedHandler(b, true, "🚫 Пользователь %s заблокирован.")
}

func UnblockHandler(b *dostavka.Bot) handler.CommandHandler {
	return setBlockedHandler(b, false, "✅ Пользователь %s разблокирован.")
}

func setBlockedHandler(b *dostavka.Bot, blocked bool, confirmation string) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := authorize(ctx, b, e.User().ID.String(), func(p models.Permissions) bool {
			return p.BlockUsers
		}); err != nil {
			if errors.Is(err, errNotPermitted) {
				return utils.EH.CreateErrorEmbed(e, noPermissionMessage)
			}
			return utils.EH.CreateErrorEmbed(e, "Не удалось проверить права. Попробуйте позже.")
		}

		target := e.SlashCommandInteractionData().User("user")
		if err := b.Ledger.SetBlocked(ctx, target.ID.String(), target.Username, blocked); err != nil {
			slog.Error("Failed to update block flag",
				slog.String("type", "db"),
				slog.String("discord_id", target.ID.String()),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Не удалось обновить пользователя. Попробуйте позже.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(confirmation, target.Username))
	}
}
