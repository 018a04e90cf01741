package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var Broadcast = discord.SlashCommandCreate{
	Name:        "broadcast",
	Description: "📣 Отправить сообщение всем пользователям",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "message",
			Description: "Текст рассылки",
			Required:    true,
		},
	},
}

func BroadcastHandler(b *dostavka.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := authorize(ctx, b, e.User().ID.String(), func(p models.Permissions) bool {
			return p.Broadcast
		}); err != nil {
			if errors.Is(err, errNotPermitted) {
				return utils.EH.CreateErrorEmbed(e, noPermissionMessage)
			}
			return utils.EH.CreateErrorEmbed(e, "Не удалось проверить права. Попробуйте позже.")
		}

		text := e.SlashCommandInteractionData().String("message")

		users, err := b.UserRepository.GetUsers(ctx)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Не удалось загрузить пользователей. Попробуйте позже.")
		}

		// DMs can take a while with many users, so defer the reply.
		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		var sent, failed int
		for _, user := range users {
			id, err := snowflake.Parse(user.DiscordID)
			if err != nil {
				failed++
				continue
			}

			dmChannel, err := b.Client.Rest().CreateDMChannel(id)
			if err != nil {
				failed++
				continue
			}

			_, err = b.Client.Rest().CreateMessage(dmChannel.ID(), discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "📣 Объявление",
					Description: text,
					Color:       utils.InfoColor,
				}},
			})
			if err != nil {
				failed++
				continue
			}
			sent++
		}

		slog.Info("Broadcast finished",
			slog.String("type", "cmd"),
			slog.Int("sent", sent),
			slog.Int("failed", failed),
		)

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Description: fmt.Sprintf("📣 Рассылка завершена: доставлено %d, не доставлено %d.", sent, failed),
				Color:       utils.SuccessColor,
			}},
		})
		return err
	}
}
