package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/database/models"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var FindUser = discord.SlashCommandCreate{
	Name:        "finduser",
	Description: "🔍 Найти пользователя по имени",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "query",
			Description: "Имя или его часть",
			Required:    true,
		},
	},
}

const maxFindResults = 10

// userSource adapts the user list to fuzzy matching on usernames.
type userSource []*models.User

func (s userSource) String(i int) string { return s[i].Username }
func (s userSource) Len() int            { return len(s) }

func FindUserHandler(b *dostavka.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := authorize(ctx, b, e.User().ID.String(), func(p models.Permissions) bool {
			return p.ViewUsers
		}); err != nil {
			if errors.Is(err, errNotPermitted) {
				return utils.EH.CreateErrorEmbed(e, noPermissionMessage)
			}
			return utils.EH.CreateErrorEmbed(e, "Не удалось проверить права. Попробуйте позже.")
		}

		query := strings.TrimSpace(e.SlashCommandInteractionData().String("query"))

		users, err := b.UserRepository.GetUsers(ctx)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Не удалось загрузить пользователей. Попробуйте позже.")
		}

		matches := fuzzy.FindFrom(query, userSource(users))
		if len(matches) == 0 {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("Никого не нашлось по запросу `%s`.", query))
		}
		if len(matches) > maxFindResults {
			matches = matches[:maxFindResults]
		}

		var description strings.Builder
		for _, m := range matches {
			user := users[m.Index]
			status := ""
			if user.Blocked {
				status = " 🚫"
			}
			description.WriteString(fmt.Sprintf("**%s**%s — `%s`\n└ %s ₽, %s доставок\n",
				user.Username,
				status,
				user.DiscordID,
				utils.FormatNumber(user.Earnings),
				utils.FormatNumber(user.Deliveries),
			))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("🔍 Найдено: %d", len(matches)),
				Description: description.String(),
				Color:       utils.InfoColor,
			}},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}
