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
	"github.com/whitewenty/dostavka/dostavka/economy/buffs"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var GiveBuff = discord.SlashCommandCreate{
	Name:        "givebuff",
	Description: "🎁 Выдать бафф пользователю бесплатно",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Кому выдать",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "buff",
			Description: "Какой бафф выдать",
			Required:    true,
			Choices:     buffChoices(),
		},
	},
}

func buffChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(buffs.Catalog))
	for _, item := range buffs.Catalog {
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{
			Name:  item.Name,
			Value: item.ID,
		})
	}
	return choices
}

func GiveBuffHandler(b *dostavka.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := authorize(ctx, b, e.User().ID.String(), func(p models.Permissions) bool {
			return p.GiveItems
		}); err != nil {
			if errors.Is(err, errNotPermitted) {
				return utils.EH.CreateErrorEmbed(e, noPermissionMessage)
			}
			return utils.EH.CreateErrorEmbed(e, "Не удалось проверить права. Попробуйте позже.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")

		item := buffs.CatalogItemByID(data.String("buff"))
		if item == nil {
			return utils.EH.CreateErrorEmbed(e, "Такого баффа нет в каталоге.")
		}

		if err := b.Ledger.GrantBuff(ctx, target.ID.String(), target.Username, *item); err != nil {
			slog.Error("Failed to grant buff",
				slog.String("type", "db"),
				slog.String("discord_id", target.ID.String()),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Не удалось выдать бафф. Попробуйте позже.")
		}

		return utils.EH.CreateSuccessEmbed(e,
			fmt.Sprintf("🎁 %s получил %s на %d минут!", target.Username, item.Name, item.DurationMinutes))
	}
}
