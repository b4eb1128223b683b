package discord

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/havce/cmdblock"
)

// onMessageCreate suppresses prefixed chat commands that are blocked: the
// message is deleted and the author gets the denial in a direct message.
func (s *Server) onMessageCreate(e *events.MessageCreate) {
	d := s.decideMessage(e.Message)
	if !d.Cancel {
		return
	}

	logger := s.logger().With("user", e.Message.Author.ID, "channel", e.ChannelID)
	label, _ := cmdblock.Label(e.Message.Content, s.Prefix)
	logger.Debug("blocked command", "label", label)

	if err := s.client.Rest().DeleteMessage(e.ChannelID, e.MessageID); err != nil {
		logger.Error("cannot delete blocked command", "err", err)
	}

	if d.Message == "" {
		return
	}

	dm, err := s.client.Rest().CreateDMChannel(e.Message.Author.ID)
	if err != nil {
		logger.Error("cannot open dm channel", "err", err)
		return
	}

	if _, err := s.client.Rest().CreateMessage(dm.ID(), discord.NewMessageCreateBuilder().
		SetContent(d.Message).
		Build()); err != nil {
		logger.Error("cannot send denial", "err", err)
	}
}

// decideMessage runs a chat message through the message interceptor.
// Bots and direct messages are never blocked.
func (s *Server) decideMessage(msg discord.Message) cmdblock.Decision {
	if msg.Author.Bot || msg.GuildID == nil || msg.Member == nil {
		return cmdblock.Decision{}
	}

	return s.messages.Handle(cmdblock.Event{
		Message: msg.Content,
		Issuer: Member{
			UserID:      msg.Author.ID,
			RoleIDs:     msg.Member.RoleIDs,
			Permissions: s.memberPermissions(*msg.GuildID, msg.Member.RoleIDs),
			Owner:       s.isGuildOwner(*msg.GuildID, msg.Author.ID),
		},
	})
}

// memberPermissions sums the guild level permissions of the given roles,
// including @everyone, from the role cache.
func (s *Server) memberPermissions(guildID snowflake.ID, roleIDs []snowflake.ID) discord.Permissions {
	lookup := s.rolePermissions
	if lookup == nil {
		lookup = s.cachedRolePermissions
	}

	var perms discord.Permissions
	for _, id := range append([]snowflake.ID{guildID}, roleIDs...) {
		if p, ok := lookup(guildID, id); ok {
			perms = perms.Add(p)
		}
	}
	return perms
}

func (s *Server) cachedRolePermissions(guildID snowflake.ID, roleID snowflake.ID) (discord.Permissions, bool) {
	if s.client == nil {
		return discord.PermissionsNone, false
	}

	role, ok := s.client.Caches().Role(guildID, roleID)
	if !ok {
		return discord.PermissionsNone, false
	}
	return role.Permissions, true
}

// isGuildOwner tells whether userID owns the guild, according to the guild
// cache.
func (s *Server) isGuildOwner(guildID, userID snowflake.ID) bool {
	lookup := s.guildOwner
	if lookup == nil {
		lookup = s.cachedGuildOwner
	}

	ownerID, ok := lookup(guildID)
	return ok && ownerID == userID
}

func (s *Server) cachedGuildOwner(guildID snowflake.ID) (snowflake.ID, bool) {
	if s.client == nil {
		return 0, false
	}

	guild, ok := s.client.Caches().Guild(guildID)
	if !ok {
		return 0, false
	}
	return guild.OwnerID, true
}
