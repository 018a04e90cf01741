package admin

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Block,
	Unblock,
	AddMoney,
	RemoveMoney,
	GiveBuff,
	Broadcast,
	FindUser,
	AddAdmin,
}
