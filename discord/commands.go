package discord

import "github.com/disgoorg/disgo/discord"

var (
	commands = []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        "ping",
			Description: "Checks the bot is alive",
		},
		discord.SlashCommandCreate{
			Name:        "blocked",
			Description: "Lists the commands nobody may run",
		},
	}
)
