package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/havce/cmdblock/internal/config"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFile_TOML(t *testing.T) {
	path := writeFile(t, "cmdblock.toml", `
blocked_commands = ["ban", "kick"]

[discord]
guild_id = "123"
bypass_roles = ["456"]

[db]
dsn = ":memory:"
`)

	c, err := config.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(c.BlockedCommands, []string{"ban", "kick"}) {
		t.Errorf("BlockedCommands = %v", c.BlockedCommands)
	}
	if c.Discord.GuildID != "123" || !slices.Equal(c.Discord.BypassRoles, []string{"456"}) {
		t.Errorf("Discord = %+v", c.Discord)
	}
	if c.DB.DSN != ":memory:" {
		t.Errorf("DB.DSN = %q", c.DB.DSN)
	}

	// Unset options keep their defaults.
	if c.Prefix != config.DefaultPrefix || c.Discord.Prefix != config.DefaultChatPrefix || c.LogLevel != config.DefaultLogLevel {
		t.Errorf("defaults lost: prefix=%q discord.prefix=%q log_level=%q", c.Prefix, c.Discord.Prefix, c.LogLevel)
	}
}

func TestReadFile_YAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
blocked_commands:
  - ban
  - pl
twitch:
  channel: somechannel
  bypass_users: [trusted]
`)

	c, err := config.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(c.BlockedCommands, []string{"ban", "pl"}) {
		t.Errorf("BlockedCommands = %v", c.BlockedCommands)
	}
	if c.Twitch.Channel != "somechannel" || !slices.Equal(c.Twitch.BypassUsers, []string{"trusted"}) {
		t.Errorf("Twitch = %+v", c.Twitch)
	}
}

func TestReadFile_Invalid(t *testing.T) {
	path := writeFile(t, "cmdblock.toml", `blocked_commands = "ban"`)
	if _, err := config.ReadFile(path); err == nil {
		t.Fatal("expected error for non-list blocked_commands")
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := config.ReadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not exist", err)
	}
}

func TestWriteDefaultFile(t *testing.T) {
	for _, tc := range []struct {
		name      string
		unmarshal func([]byte, any) error
	}{
		{"cmdblock.toml", toml.Unmarshal},
		{"config.yml", yaml.Unmarshal},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sub", tc.name)

			if err := config.WriteDefaultFile(path); err != nil {
				t.Fatal(err)
			}

			buf, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			} else if len(buf) == 0 {
				t.Fatal("default file is empty")
			}

			// Decode into a zero Config so nothing is inherited from Default().
			var c config.Config
			if err := tc.unmarshal(buf, &c); err != nil {
				t.Fatalf("decode default file: %v", err)
			}
			if len(c.BlockedCommands) != 0 {
				t.Errorf("default blocklist = %v, want empty", c.BlockedCommands)
			}
			if c.Prefix != "/" || c.Discord.Prefix != "!" || c.Twitch.Prefix != "!" {
				t.Errorf("default prefixes = %q %q %q", c.Prefix, c.Discord.Prefix, c.Twitch.Prefix)
			}
			if c.LogLevel != config.DefaultLogLevel {
				t.Errorf("default log level = %q", c.LogLevel)
			}
		})
	}
}

func TestWriteDefaultFile_KeepsExisting(t *testing.T) {
	path := writeFile(t, "cmdblock.toml", `blocked_commands = ["ban"]`)

	if err := config.WriteDefaultFile(path); err != nil {
		t.Fatal(err)
	}

	c, err := config.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	} else if !slices.Equal(c.BlockedCommands, []string{"ban"}) {
		t.Fatalf("existing file was overwritten: %v", c.BlockedCommands)
	}
}

func TestParsePrefix(t *testing.T) {
	for _, s := range []string{"/", "!", "§"} {
		if r, err := config.ParsePrefix(s); err != nil || string(r) != s {
			t.Errorf("ParsePrefix(%q) = %q, %v", s, r, err)
		}
	}
	for _, s := range []string{"", "!!", "ab"} {
		if _, err := config.ParsePrefix(s); err == nil {
			t.Errorf("ParsePrefix(%q) should fail", s)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	if l, err := config.ParseLogLevel("debug"); err != nil || l != slog.LevelDebug {
		t.Errorf("ParseLogLevel(debug) = %v, %v", l, err)
	}
	if _, err := config.ParseLogLevel("loud"); err == nil {
		t.Error("ParseLogLevel(loud) should fail")
	}
}

func TestExpandDSN(t *testing.T) {
	for _, dsn := range []string{":memory:", "postgres://u:p@localhost/db", "postgresql://localhost/db"} {
		if got, err := config.ExpandDSN(dsn); err != nil || got != dsn {
			t.Errorf("ExpandDSN(%q) = %q, %v", dsn, got, err)
		}
	}

	if got, err := config.ExpandDSN("./data//blocklist.db"); err != nil || got != "data/blocklist.db" {
		t.Errorf("ExpandDSN(relative) = %q, %v", got, err)
	}
}
