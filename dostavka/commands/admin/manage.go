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

var AddAdmin = discord.SlashCommandCreate{
	Name:        "addadmin",
	Description: "🛡️ Назначить администратора",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Кого назначить",
			Required:    true,
		},
	},
}

func AddAdminHandler(b *dostavka.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := authorize(ctx, b, e.User().ID.String(), func(p models.Permissions) bool {
			return p.ManageAdmins
		}); err != nil {
			if errors.Is(err, errNotPermitted) {
				return utils.EH.CreateErrorEmbed(e, noPermissionMessage)
			}
			return utils.EH.CreateErrorEmbed(e, "Не удалось проверить права. Попробуйте позже.")
		}

		target := e.SlashCommandInteractionData().User("user")

		if _, err := b.AdminRepository.GetByDiscordID(ctx, target.ID.String()); err == nil {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("%s уже администратор.", target.Username))
		}

		admin := &models.Admin{
			DiscordID: target.ID.String(),
			Name:      target.Username,
			Role:      models.RoleAdmin,
			Permissions: models.Permissions{
				BlockUsers:  true,
				AddMoney:    true,
				RemoveMoney: true,
				GiveItems:   true,
				Broadcast:   true,
				ViewUsers:   true,
			},
			AddedBy: e.User().ID.String(),
		}
		if err := b.AdminRepository.Create(ctx, admin); err != nil {
			slog.Error("Failed to create admin",
				slog.String("type", "db"),
				slog.String("discord_id", target.ID.String()),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Не удалось назначить администратора. Попробуйте позже.")
		}

		return utils.EH.CreateSuccessEmbed(e,
			fmt.Sprintf("🛡️ %s теперь администратор.", target.Username))
	}
}
