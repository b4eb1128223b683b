package twitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gempir/go-twitch-irc/v4"
	"github.com/havce/cmdblock"
)

// DefaultPrefix starts chat commands.
const DefaultPrefix = '!'

// DefaultConnectTimeout bounds how long Open waits for the first connection.
const DefaultConnectTimeout = 30 * time.Second

// chatClient is the part of *twitch.Client the bot uses.
type chatClient interface {
	OnConnect(callback func())
	OnPrivateMessage(callback func(message twitch.PrivateMessage))
	Join(channels ...string)
	Depart(channel string)
	Connect() error
	Disconnect() error
	Reply(channel, parentMsgID, text string)
}

func newClient(username, oauthToken string) chatClient {
	c := twitch.NewClient(username, "oauth:"+strings.TrimPrefix(oauthToken, "oauth:"))
	c.Capabilities = []string{twitch.TagsCapability, twitch.CommandsCapability}
	return c
}

// Bot watches a channel's chat and stops blocked commands before they reach
// Handler.
type Bot struct {
	Username   string
	OAuthToken string
	Channel    string

	// Chat command prefix.
	Prefix rune

	// Logins that may run blocked commands.
	BypassUsers []string

	Blocklist *cmdblock.Blocklist
	Logger    *slog.Logger

	// Handler receives the messages that were not blocked.
	Handler func(message twitch.PrivateMessage)

	// How long Open waits for Twitch to accept the connection.
	ConnectTimeout time.Duration

	client      chatClient
	interceptor *cmdblock.Interceptor

	// Overridden in tests.
	newClient func(username, oauthToken string) chatClient
}

func NewBot() *Bot {
	return &Bot{
		Prefix:         DefaultPrefix,
		ConnectTimeout: DefaultConnectTimeout,
		newClient:      newClient,
	}
}

// init builds the interceptor out of the exported configuration.
func (b *Bot) init() {
	perms := &Authorizer{Users: map[string][]string{
		cmdblock.BypassPermission: b.BypassUsers,
	}}
	b.interceptor = cmdblock.NewInterceptor(b.Blocklist, perms, cmdblock.WithPrefix(b.Prefix))
}

func (b *Bot) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// Open joins the channel and connects to Twitch. It returns once the first
// connection is established, or with the error that prevented it.
func (b *Bot) Open(ctx context.Context) error {
	if b.Channel == "" {
		return cmdblock.Errorf(cmdblock.EINVALID, "Twitch channel required.")
	}

	b.init()

	connect := b.newClient
	if connect == nil {
		connect = newClient
	}
	client := connect(b.Username, b.OAuthToken)
	b.client = client

	connected := make(chan struct{})
	var once sync.Once
	client.OnConnect(func() {
		b.logger().Info("connected to twitch", "channel", b.Channel)
		once.Do(func() { close(connected) })
	})
	client.OnPrivateMessage(b.onPrivateMessage)
	client.Join(b.Channel)

	// Connect blocks for the lifetime of the connection.
	errc := make(chan error, 1)
	go func() { errc <- client.Connect() }()

	timeout := b.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-connected:
	case err := <-errc:
		return fmt.Errorf("connect: %w", err)
	case <-timer.C:
		_ = client.Disconnect()
		return fmt.Errorf("connect: no connection after %s", timeout)
	case <-ctx.Done():
		_ = client.Disconnect()
		return fmt.Errorf("connect: %w", ctx.Err())
	}

	go func() {
		if err := <-errc; err != nil && !errors.Is(err, twitch.ErrClientDisconnected) {
			b.logger().Error("twitch connection closed", "err", err)
		}
	}()

	return nil
}

// Close leaves the channel and disconnects from Twitch.
func (b *Bot) Close(ctx context.Context) error {
	if b.client == nil {
		return nil
	}

	b.client.Depart(b.Channel)
	if err := b.client.Disconnect(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}

func (b *Bot) onPrivateMessage(message twitch.PrivateMessage) {
	d := b.interceptor.Handle(cmdblock.Event{
		Message: message.Message,
		Issuer: User{
			Login:  message.User.Name,
			Badges: message.User.Badges,
		},
	})

	if !d.Cancel {
		if b.Handler != nil {
			b.Handler(message)
		}
		return
	}

	label, _ := cmdblock.Label(message.Message, b.Prefix)
	b.logger().Debug("blocked command", "user", message.User.Name, "label", label)

	if d.Message != "" && b.client != nil {
		b.client.Reply(message.Channel, message.ID, d.Message)
	}
}
