package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/havce/cmdblock"
	"github.com/havce/cmdblock/discord"
	"github.com/havce/cmdblock/internal/config"
	"github.com/havce/cmdblock/internal/store"
	"github.com/havce/cmdblock/twitch"
)

// Build version, injected during build.
var (
	version string
	commit  string
)

func main() {
	// Propagate build information to root package to share globally.
	cmdblock.Version = version
	cmdblock.Commit = commit

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	m := NewMain()

	// Parse command line flags & load configuration.
	if err := m.ParseFlagAndConfig(ctx, os.Args[1:]); errors.Is(err, flag.ErrHelp) {
		os.Exit(1)
	} else if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := m.Run(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		_ = m.Close(ctx)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := m.Close(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Closer is a host adapter that must be shut down on exit.
type Closer interface {
	Close(ctx context.Context) error
}

type Main struct {
	Config     config.Config
	ConfigPath string

	Logger *slog.Logger

	// Loaded once in Run, never modified afterwards.
	Blocklist *cmdblock.Blocklist

	Discord *discord.Server
	Twitch  *twitch.Bot

	hosts []Closer
}

func NewMain() *Main {
	return &Main{
		Discord: discord.NewServer(),
		Twitch:  twitch.NewBot(),

		Config:     config.Default(),
		ConfigPath: config.DefaultPath,
		Logger:     slog.Default(),
	}
}

func (m *Main) Close(ctx context.Context) error {
	var errs []error
	for _, h := range m.hosts {
		if err := h.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	m.hosts = nil
	return errors.Join(errs...)
}

func (m *Main) ParseFlagAndConfig(ctx context.Context, args []string) error {
	f := flag.NewFlagSet("cmdblockd", flag.ContinueOnError)
	f.StringVar(&m.ConfigPath, "config-path", config.DefaultPath, "config file path")
	if err := f.Parse(args); err != nil {
		return err
	}

	// The Expand() function is here to automatically expand "~" to the user's
	// home directory. This is a common task as configuration files are typing
	// under the home directory during local development.
	configPath, err := config.Expand(m.ConfigPath)
	if err != nil {
		return err
	}

	// A missing file is replaced by the defaults, which block nothing.
	c, err := config.ReadFile(configPath)
	if os.IsNotExist(err) {
		if err := config.WriteDefaultFile(configPath); err != nil {
			return fmt.Errorf("cannot write default config: %w", err)
		}
		slog.Warn("config file not found, wrote defaults", "path", configPath)
	} else if err != nil {
		return err
	}

	m.Config = c

	level, err := config.ParseLogLevel(m.Config.LogLevel)
	if err != nil {
		return err
	}
	m.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return nil
}

// LoadBlocklist merges the configured names with the ones stored in the
// database, if any.
func (m *Main) LoadBlocklist(ctx context.Context) (*cmdblock.Blocklist, error) {
	b := cmdblock.NewBlocklist(m.Config.BlockedCommands...)
	if m.Config.DB.DSN == "" {
		return b, nil
	}

	s, err := store.Open(ctx, m.Config.DB.DSN)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	stored, err := cmdblock.LoadBlocklist(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("cannot load blocked commands: %w", err)
	}
	return cmdblock.Merge(b, stored), nil
}

func (m *Main) Run(ctx context.Context) (err error) {
	if m.Blocklist, err = m.LoadBlocklist(ctx); err != nil {
		return err
	}
	m.Logger.Info("blocklist loaded", "commands", m.Blocklist.Len())

	if m.Config.Discord.BotToken != "" {
		if err := m.openDiscord(ctx); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if m.Config.Twitch.Channel != "" {
		if err := m.openTwitch(ctx); err != nil {
			return fmt.Errorf("twitch: %w", err)
		}
	}

	if len(m.hosts) == 0 {
		return fmt.Errorf("no discord bot_token or twitch channel configured in %s", m.ConfigPath)
	}

	m.Logger.Info("cmdblockd started", "version", cmdblock.Version)

	return nil
}

func (m *Main) openDiscord(ctx context.Context) (err error) {
	if m.Discord.Prefix, err = config.ParsePrefix(m.Config.Discord.Prefix); err != nil {
		return err
	}
	if m.Discord.BypassRoles, err = discord.ParseRoles(m.Config.Discord.BypassRoles); err != nil {
		return err
	}

	m.Discord.BotToken = m.Config.Discord.BotToken
	m.Discord.GuildID = m.Config.Discord.GuildID
	m.Discord.Blocklist = m.Blocklist
	m.Discord.Logger = m.Logger.With("host", "discord")

	if err := m.Discord.Open(ctx); err != nil {
		return err
	}
	m.hosts = append(m.hosts, m.Discord)
	return nil
}

func (m *Main) openTwitch(ctx context.Context) (err error) {
	if m.Twitch.Prefix, err = config.ParsePrefix(m.Config.Twitch.Prefix); err != nil {
		return err
	}

	m.Twitch.Username = m.Config.Twitch.Username
	m.Twitch.OAuthToken = m.Config.Twitch.OAuthToken
	m.Twitch.Channel = m.Config.Twitch.Channel
	m.Twitch.BypassUsers = m.Config.Twitch.BypassUsers
	m.Twitch.Blocklist = m.Blocklist
	m.Twitch.Logger = m.Logger.With("host", "twitch")

	if err := m.Twitch.Open(ctx); err != nil {
		return err
	}
	m.hosts = append(m.hosts, m.Twitch)
	return nil
}
