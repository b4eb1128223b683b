package discord

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

func (s *Server) handleBlocked(event *handler.CommandEvent) error {
	return event.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(messageEmbedSuccess(
			fmt.Sprintf("%d blocked commands", s.Blocklist.Len()),
			formatBlocklist(s.Blocklist.Names(), string(s.Prefix)),
		)).
		SetEphemeral(true).
		Build())
}

// formatBlocklist renders names as a list of inline code spans.
func formatBlocklist(names []string, prefix string) string {
	if len(names) == 0 {
		return "Nothing is blocked."
	}

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "`%s%s`", prefix, name)
	}
	return b.String()
}
