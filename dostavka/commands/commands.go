package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/whitewenty/dostavka/dostavka/commands/admin"
)

var Commands = []discord.ApplicationCommandCreate{
	Deliver,
	Shop,
	Profile,
	Top,
}

func init() {
	Commands = append(Commands, admin.Commands...)
}
