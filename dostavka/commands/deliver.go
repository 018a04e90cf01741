package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var Deliver = discord.SlashCommandCreate{
	Name:        "deliver",
	Description: "📦 Доставить посылку и заработать рубли",
}

// Raw earnings per delivery before buffs.
const (
	minDeliveryEarnings = 100
	maxDeliveryEarnings = 500
)

func DeliverHandler(b *dostavka.Bot) handler.CommandHandler {
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

		if user.Blocked {
			return utils.EH.CreateErrorEmbed(e, "🚫 Вы заблокированы и не можете делать доставки.")
		}

		allowed, remaining, err := b.Ledger.CanDeliver(ctx, userID, username)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Не удалось проверить кулдаун. Попробуйте позже.")
		}
		if !allowed {
			return utils.EH.CreateErrorEmbed(e,
				fmt.Sprintf("⏳ Подождите ещё %s до следующей доставки!", utils.FormatRemaining(remaining)))
		}

		rawRoll := int64(minDeliveryEarnings + rand.Intn(maxDeliveryEarnings-minDeliveryEarnings+1))

		raw, credited, err := b.Ledger.RecordDelivery(ctx, userID, username, 1, rawRoll)
		if err != nil {
			slog.Error("Failed to record delivery",
				slog.String("type", "db"),
				slog.String("discord_id", userID),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Не удалось сохранить доставку. Попробуйте позже.")
		}

		embed := discord.NewEmbedBuilder().
			SetTitle("📦 Доставка выполнена!").
			SetDescription(buildDeliveryDescription(raw, credited)).
			SetColor(utils.SuccessColor).
			SetFooter(fmt.Sprintf("Доставок всего: %s", utils.FormatNumber(user.Deliveries+1)), "")

		msg := discord.MessageCreate{}

		// Operator-provided local graphic wins; otherwise fall back to the
		// hosted one.
		if path, ok := b.Images.DeliveryImagePath(); ok {
			if f, err := os.Open(path); err == nil {
				name := filepath.Base(path)
				msg.Files = []*discord.File{{Name: name, Reader: f}}
				embed.SetImage("attachment://" + name)
			}
		} else if url, ok := b.Images.DeliveryImageURL(ctx); ok {
			embed.SetImage(url)
		}

		msg.Embeds = []discord.Embed{embed.Build()}
		return e.CreateMessage(msg)
	}
}

func buildDeliveryDescription(raw, credited int64) string {
	if credited > raw {
		return fmt.Sprintf(
			"Вы заработали **%s ₽**\n💰 База: %s ₽\n🚀 Бонус баффов: +%s ₽",
			utils.FormatNumber(credited),
			utils.FormatNumber(raw),
			utils.FormatNumber(credited-raw),
		)
	}
	return fmt.Sprintf("Вы заработали **%s ₽**", utils.FormatNumber(credited))
}
