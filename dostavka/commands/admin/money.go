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
	"github.com/whitewenty/dostavka/dostavka/economy/ledger"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var AddMoney = discord.SlashCommandCreate{
	Name:        "addmoney",
	Description: "💸 Начислить рубли пользователю",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Кому начислить",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "Сумма в рублях",
			Required:    true,
			MinValue:    utils.Ptr(1),
		},
	},
}

var RemoveMoney = discord.SlashCommandCreate{
	Name:        "removemoney",
	Description: "💸 Списать рубли с пользователя",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "С кого списать",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "Сумма в рублях",
			Required:    true,
			MinValue:    utils.Ptr(1),
		},
	},
}

func AddMoneyHandler(b *dostavka.Bot) handler.CommandHandler {
	return adjustBalanceHandler(b, 1, func(p models.Permissions) bool { return p.AddMoney })
}

func RemoveMoneyHandler(b *dostavka.Bot) handler.CommandHandler {
	return adjustBalanceHandler(b, -1, func(p models.Permissions) bool { return p.RemoveMoney })
}

func adjustBalanceHandler(b *dostavka.Bot, sign int64, allowed func(models.Permissions) bool) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := authorize(ctx, b, e.User().ID.String(), allowed); err != nil {
			if errors.Is(err, errNotPermitted) {
				return utils.EH.CreateErrorEmbed(e, noPermissionMessage)
			}
			return utils.EH.CreateErrorEmbed(e, "Не удалось проверить права. Попробуйте позже.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		amount := int64(data.Int("amount"))

		balance, err := b.Ledger.AdjustBalance(ctx, target.ID.String(), target.Username, sign*amount)
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				return utils.EH.CreateErrorEmbed(e,
					fmt.Sprintf("❌ У %s недостаточно средств для списания %s ₽.",
						target.Username, utils.FormatNumber(amount)))
			}
			slog.Error("Failed to adjust balance",
				slog.String("type", "db"),
				slog.String("discord_id", target.ID.String()),
				slog.Any("error", err),
			)
			return utils.EH.CreateErrorEmbed(e, "Не удалось обновить баланс. Попробуйте позже.")
		}

		return utils.EH.CreateSuccessEmbed(e,
			fmt.Sprintf("✅ Баланс %s теперь %s ₽.", target.Username, utils.FormatNumber(balance)))
	}
}
