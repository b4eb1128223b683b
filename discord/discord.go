package discord

import (
	"github.com/disgoorg/disgo/discord"
)

// Embed colours.
const (
	ColorBlurple = 0x5865f2
	ColorGreen   = 0x57f287
	ColorRed     = 0xed4245
)

func messageEmbedSuccess(title string, description string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle(title).
		SetColor(ColorGreen).
		SetDescription(description).
		Build()
}

// messageEmbedDenied builds the embed shown when a user can't run a command.
func messageEmbedDenied(message string) discord.Embed {
	return discord.NewEmbedBuilder().
		SetColor(ColorRed).
		SetDescription(message).
		Build()
}
