package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/economy/buffs"
	"github.com/whitewenty/dostavka/dostavka/economy/shop"
	"github.com/whitewenty/dostavka/dostavka/utils"
)

var Shop = discord.SlashCommandCreate{
	Name:        "shop",
	Description: "🛒 Магазин баффов",
}

type ShopHandler struct {
	bot *dostavka.Bot
}

func NewShopHandler(b *dostavka.Bot) *ShopHandler {
	return &ShopHandler{bot: b}
}

func (h *ShopHandler) Handle(event *handler.CommandEvent) error {
	items := h.bot.Shop.Items()

	fields := make([]discord.EmbedField, 0, len(items))
	for _, item := range items {
		fields = append(fields, discord.EmbedField{
			Name: fmt.Sprintf("🚀 **%s**", item.Name),
			Value: fmt.Sprintf("%s\n**Цена**: %s ₽\n**Длительность**: %d мин",
				item.Description,
				utils.FormatNumber(item.Price),
				item.DurationMinutes,
			),
			Inline: utils.Ptr(true),
		})
	}

	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "🛒 Магазин баффов",
			Description: "Выберите бафф, чтобы посмотреть детали",
			Fields:      fields,
			Color:       utils.InfoColor,
			Footer: &discord.EmbedFooter{
				Text: "Баффы складываются между собой",
			},
		}},
		Components: []discord.ContainerComponent{createItemSelectMenu(items)},
	})
}

func createItemSelectMenu(items []buffs.Item) discord.ContainerComponent {
	options := make([]discord.StringSelectMenuOption, 0, len(items))
	for i, item := range items {
		options = append(options, discord.StringSelectMenuOption{
			Label:       item.Name,
			Value:       strconv.Itoa(i),
			Description: fmt.Sprintf("%d ₽ — %d мин", item.Price, item.DurationMinutes),
			Emoji:       &discord.ComponentEmoji{Name: "🚀"},
		})
	}

	return discord.NewActionRow(
		discord.NewStringSelectMenu("/shop/select", "Выберите бафф", options...).
			WithMinValues(1).
			WithMaxValues(1),
	)
}

func (h *ShopHandler) HandleComponent(event *handler.ComponentEvent) error {
	customID := event.Data.CustomID()

	switch {
	case customID == "/shop/select":
		return h.handleItemSelect(event)
	case strings.HasPrefix(customID, "/shop/buy:"):
		return h.handleBuy(event)
	default:
		return nil
	}
}

func (h *ShopHandler) handleItemSelect(event *handler.ComponentEvent) error {
	data, ok := event.Data.(discord.StringSelectMenuInteractionData)
	if !ok || len(data.Values) == 0 {
		return utils.EH.CreateEphemeralError(event, "Некорректный выбор")
	}

	index, err := strconv.Atoi(data.Values[0])
	if err != nil {
		return utils.EH.CreateEphemeralError(event, "Некорректный выбор")
	}
	item := h.bot.Shop.Item(index)

	embed := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("🚀 %s", item.Name)).
		SetColor(utils.InfoColor).
		SetDescription(fmt.Sprintf("%s\n\n**Цена**: %s ₽\n**Длительность**: %d мин\n**Бонус к доходу**: +%d%%",
			item.Description,
			utils.FormatNumber(item.Price),
			item.DurationMinutes,
			int(item.Multiplier*100),
		))

	if url := h.bot.Images.BuffImageURL(item); url != "" {
		embed.SetThumbnail(url)
	}

	actionRow := discord.NewActionRow(
		discord.NewSuccessButton("Купить 🛍️", fmt.Sprintf("/shop/buy:%d", index)),
	)

	return event.UpdateMessage(discord.MessageUpdate{
		Embeds:     &[]discord.Embed{embed.Build()},
		Components: &[]discord.ContainerComponent{actionRow},
	})
}

func (h *ShopHandler) handleBuy(event *handler.ComponentEvent) error {
	index, err := strconv.Atoi(strings.TrimPrefix(event.Data.CustomID(), "/shop/buy:"))
	if err != nil {
		return utils.EH.CreateEphemeralError(event, "Некорректный товар")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userID := event.User().ID.String()

	user, err := h.bot.Ledger.GetOrCreate(ctx, userID, event.User().Username)
	if err != nil {
		return utils.EH.CreateEphemeralError(event, "Не удалось загрузить профиль. Попробуйте позже.")
	}
	if user.Blocked {
		return utils.EH.CreateEphemeralError(event, "🚫 Вы заблокированы.")
	}

	message, err := h.bot.Shop.Purchase(ctx, userID, event.User().Username, index)
	if err != nil {
		if msg, ok := shop.IsInsufficientFunds(err); ok {
			return utils.EH.CreateEphemeralError(event, msg)
		}
		slog.Error("Purchase failed",
			slog.String("type", "db"),
			slog.String("discord_id", userID),
			slog.Any("error", err),
		)
		return utils.EH.CreateEphemeralError(event, "Не удалось совершить покупку. Попробуйте позже.")
	}

	return utils.EH.CreateEphemeralSuccess(event, message)
}
