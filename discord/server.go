package discord

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/havce/cmdblock"
)

// DefaultPrefix starts chat commands in guild text channels.
const DefaultPrefix = '!'

type Server struct {
	GuildID  string
	BotToken string

	// Chat command prefix.
	Prefix rune

	// Roles that may run blocked commands.
	BypassRoles []snowflake.ID

	Blocklist *cmdblock.Blocklist
	Logger    *slog.Logger

	router handler.Router
	client bot.Client

	// Chat commands and slash commands are judged separately as they don't
	// share a prefix.
	messages *cmdblock.Interceptor
	commands *cmdblock.Interceptor

	// Override the role and guild caches in tests.
	rolePermissions func(guildID, roleID snowflake.ID) (discord.Permissions, bool)
	guildOwner      func(guildID snowflake.ID) (snowflake.ID, bool)
}

func NewServer() *Server {
	s := &Server{
		Prefix: DefaultPrefix,
		router: handler.New(),
	}

	// Every slash command goes through the blocklist first.
	s.router.Use(s.BlockCommands)

	s.router.Group(func(r handler.Router) {
		r.Use(AdminOnly)
		r.Command("/blocked", s.handleBlocked)
	})

	s.router.Group(func(r handler.Router) {
		r.Command("/ping", s.handlePing)
	})

	return s
}

// init builds the interceptors out of the exported configuration.
func (s *Server) init() {
	perms := &Authorizer{Roles: map[string][]snowflake.ID{
		cmdblock.BypassPermission: s.BypassRoles,
	}}

	s.messages = cmdblock.NewInterceptor(s.Blocklist, perms, cmdblock.WithPrefix(s.Prefix))
	s.commands = cmdblock.NewInterceptor(s.Blocklist, perms, cmdblock.WithPrefix('/'))
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Server) Open(ctx context.Context) (err error) {
	s.init()

	s.client, err = disgo.New(
		s.BotToken,
		bot.WithLogger(s.logger()),
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds|
					gateway.IntentGuildMembers|
					gateway.IntentGuildMessages|
					gateway.IntentMessageContent,
			)),
		bot.WithEventListeners(s.router),
		bot.WithEventListenerFunc(s.onMessageCreate),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds|cache.FlagChannels|cache.FlagMembers|cache.FlagRoles),
		),
	)
	if err != nil {
		return err
	}

	guildID, err := snowflake.Parse(s.GuildID)
	if err != nil {
		return cmdblock.Errorf(cmdblock.EINVALID, "Invalid guild ID %q.", s.GuildID)
	}

	if err = handler.SyncCommands(s.client, commands, []snowflake.ID{guildID}); err != nil {
		return err
	}

	return s.client.OpenGateway(ctx)
}

func (s *Server) Close(ctx context.Context) error {
	if s.client != nil {
		s.client.Close(ctx)
	}

	return nil
}
