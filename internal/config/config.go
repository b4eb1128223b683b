// Package config reads the cmdblock configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	BlockedCommands []string `toml:"blocked_commands" yaml:"blocked_commands"`
	Prefix          string   `toml:"prefix" yaml:"prefix"`
	LogLevel        string   `toml:"log_level" yaml:"log_level"`

	Discord struct {
		GuildID     string   `toml:"guild_id" yaml:"guild_id"`
		BotToken    string   `toml:"bot_token" yaml:"bot_token"`
		Prefix      string   `toml:"prefix" yaml:"prefix"`
		BypassRoles []string `toml:"bypass_roles" yaml:"bypass_roles"`
	} `toml:"discord" yaml:"discord"`

	Twitch struct {
		Username    string   `toml:"username" yaml:"username"`
		OAuthToken  string   `toml:"oauth_token" yaml:"oauth_token"`
		Channel     string   `toml:"channel" yaml:"channel"`
		Prefix      string   `toml:"prefix" yaml:"prefix"`
		BypassUsers []string `toml:"bypass_users" yaml:"bypass_users"`
	} `toml:"twitch" yaml:"twitch"`

	DB struct {
		DSN string `toml:"dsn" yaml:"dsn"`
	} `toml:"db" yaml:"db"`
}

const DefaultPath = "~/.cmdblock.toml"

const (
	DefaultPrefix     = "/"
	DefaultChatPrefix = "!"
	DefaultLogLevel   = "info"
)

//go:embed default.toml
var defaultConfigFile []byte

// Default returns a new instance of Config with defaults set.
func Default() Config {
	var config Config
	config.Prefix = DefaultPrefix
	config.LogLevel = DefaultLogLevel
	config.Discord.Prefix = DefaultChatPrefix
	config.Twitch.Prefix = DefaultChatPrefix
	return config
}

// ReadFile unmarshals config from filename. Files ending in .yml or
// .yaml are read as YAML, anything else as TOML.
func ReadFile(filename string) (Config, error) {
	config := Default()

	buf, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}

	if isYAML(filename) {
		err = yaml.Unmarshal(buf, &config)
	} else {
		err = toml.Unmarshal(buf, &config)
	}
	if err != nil {
		return config, fmt.Errorf("parse %s: %w", filename, err)
	}
	return config, nil
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yml" || ext == ".yaml"
}

// WriteDefaultFile creates filename with the default configuration.
// An existing file is left untouched.
func WriteDefaultFile(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return nil
	} else if err != nil {
		return err
	}
	defer f.Close()

	if isYAML(filename) {
		var config Config
		if err := toml.Unmarshal(defaultConfigFile, &config); err != nil {
			return err
		}
		return yaml.NewEncoder(f).Encode(config)
	}

	_, err = f.Write(defaultConfigFile)
	return err
}

// ParsePrefix returns the single character a prefix option holds.
func ParsePrefix(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return 0, fmt.Errorf("prefix must be a single character: %q", s)
	}
	return r, nil
}

// ParseLogLevel maps a log_level option to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level: %q", s)
	}
	return level, nil
}

// Expand returns path using tilde expansion. This means that a file path that
// begins with the "~" will be expanded to prefix the user's home directory.
func Expand(path string) (string, error) {
	// Ignore path if it hasn't a leading tilde.
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return filepath.Clean(path), nil
	}

	// Fetch the current user to determine the home path.
	u, err := user.Current()
	if err != nil {
		return filepath.Clean(path), err
	} else if u.HomeDir == "" {
		return filepath.Clean(path), errors.New("home directory unset")
	}

	// If the path is composed only by the tilde return the home directory.
	if path == "~" {
		return u.HomeDir, nil
	}

	return filepath.Join(u.HomeDir, strings.TrimPrefix(path, "~"+string(os.PathSeparator))), nil
}

// ExpandDSN expands a datasource name. Ignores in-memory databases and
// postgres URLs.
func ExpandDSN(dsn string) (string, error) {
	if dsn == ":memory:" || IsPostgresDSN(dsn) {
		return dsn, nil
	}
	return Expand(dsn)
}

// IsPostgresDSN reports whether dsn names a postgres database.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
