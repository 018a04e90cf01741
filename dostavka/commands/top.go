package commands

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var Top = discord.SlashCommandCreate{
	Name:        "top",
	Description: "🏆 Лучшие курьеры по количеству доставок",
}

const (
	topQueryLimit = 50
	topPerPage    = 5
)

var topMedals = []string{"🥇", "🥈", "🥉"}

func TopHandler(b *dostavka.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		entries, err := b.Ledger.TopN(ctx, topQueryLimit)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Не удалось загрузить таблицу лидеров. Попробуйте позже.")
		}
		if len(entries) == 0 {
			return utils.EH.CreateInfoEmbed(e, "Пока никто ничего не доставил 📭")
		}

		totalPages := int(math.Ceil(float64(len(entries)) / float64(topPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * topPerPage
				endIdx := min(startIdx+topPerPage, len(entries))

				var description strings.Builder
				for i := startIdx; i < endIdx; i++ {
					entry := entries[i]
					rank := fmt.Sprintf("%d.", i+1)
					if i < len(topMedals) {
						rank = topMedals[i]
					}
					description.WriteString(fmt.Sprintf("%s **%s** — %s доставок\n",
						rank,
						entry.Username,
						utils.FormatNumber(entry.Deliveries),
					))
				}

				embed.
					SetTitle("🏆 Лучшие курьеры").
					SetDescription(description.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Страница %d/%d", page+1, totalPages), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
