package discord

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/havce/cmdblock"
)

// This middleware restricts the routes to Administrators only.
var AdminOnly handler.Middleware = func(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		if m := e.Member(); m != nil && m.Permissions.Has(discord.PermissionAdministrator) {
			return next(e)
		}

		return e.Respond(discord.InteractionResponseTypeCreateMessage,
			discord.NewMessageCreateBuilder().
				SetContent("You're not authorized to run this command.").
				SetEphemeral(true).Build())
	}
}

// BlockCommands stops blocked slash commands before they reach their handler.
func (s *Server) BlockCommands(next handler.Handler) handler.Handler {
	return func(e *handler.InteractionEvent) error {
		i, ok := e.Interaction.(discord.ApplicationCommandInteraction)
		if !ok {
			return next(e)
		}

		d := s.decideCommand(i.Data.CommandName(), i.GuildID(), i.Member())
		if !d.Cancel {
			return next(e)
		}

		s.logger().Debug("blocked command", "user", i.User().ID, "label", i.Data.CommandName())

		return e.Respond(discord.InteractionResponseTypeCreateMessage,
			discord.NewMessageCreateBuilder().
				SetEmbeds(messageEmbedDenied(d.Message)).
				SetEphemeral(true).Build())
	}
}

// decideCommand runs a slash command through the command interceptor.
// Commands used outside a guild are never blocked.
func (s *Server) decideCommand(name string, guildID *snowflake.ID, m *discord.ResolvedMember) cmdblock.Decision {
	if m == nil || guildID == nil {
		return cmdblock.Decision{}
	}

	return s.commands.Handle(cmdblock.Event{
		Message: "/" + name,
		Issuer: Member{
			UserID:      m.User.ID,
			RoleIDs:     m.RoleIDs,
			Permissions: m.Permissions,
			Owner:       s.isGuildOwner(*guildID, m.User.ID),
		},
	})
}
