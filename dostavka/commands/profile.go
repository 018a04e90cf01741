package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var Profile = discord.SlashCommandCreate{
	Name:        "profile",
	Description: "💰 Ваш баланс, доставки и активные баффы",
}

func ProfileHandler(b *dostavka.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		userID := e.User().ID.String()
		username := e.User().Username

		user, err := b.Ledger.GetOrCreate(ctx, userID, username)
		if err != nil {
			slog.Error("Failed to get user",
				slog.String("type", "db"),
				slog.String("discord_id", userID),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Не удалось загрузить профиль. Попробуйте позже.")
		}

		views, err := b.Ledger.ActiveBuffs(ctx, userID, username)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Не удалось загрузить баффы. Попробуйте позже.")
		}

		var description strings.Builder
		description.WriteString("```ansi\n")
		description.WriteString(fmt.Sprintf("\x1b[1;36mБаланс:\x1b[0m %s ₽\n", utils.FormatNumber(user.Earnings)))
		description.WriteString(fmt.Sprintf("\x1b[1;33mДоставок:\x1b[0m %s\n", utils.FormatNumber(user.Deliveries)))
		description.WriteString(fmt.Sprintf("\x1b[1;35mОпыт:\x1b[0m %s\n", utils.FormatNumber(user.Experience)))
		description.WriteString("```\n")

		if len(views) == 0 {
			description.WriteString("Активных баффов нет")
		} else {
			description.WriteString("**Активные баффы:**\n")
			for _, v := range views {
				description.WriteString(fmt.Sprintf("🚀 %s (+%d%%) — осталось %d мин %d сек\n",
					v.Name,
					int(v.Multiplier*100),
					v.RemainingMinutes,
					v.RemainingSeconds,
				))
			}
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📦 Профиль курьера",
				Description: description.String(),
				Color:       utils.SuccessColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Запросил %s", username),
				},
				Timestamp: &now,
			}},
		})
	}
}
