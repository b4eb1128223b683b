package cmdblock

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// BlockedCommand is a blocked command name kept in a database.
type BlockedCommand struct {
	ID   int
	Name string

	// Metadata about creation.
	CreatedAt time.Time
}

// Validate normalizes the name and checks it can be stored.
func (c *BlockedCommand) Validate() error {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))

	if c.Name == "" {
		return Errorf(EINVALID, "Command name required.")
	}

	if strings.IndexFunc(c.Name, unicode.IsSpace) >= 0 {
		return Errorf(EINVALID, "Command name %q must be a single word.", c.Name)
	}

	return nil
}

type BlocklistService interface {
	// Retrieves every blocked command, ordered by name.
	FindBlockedCommands(ctx context.Context) ([]*BlockedCommand, error)

	// Blocks a new command.
	CreateBlockedCommand(ctx context.Context, cmd *BlockedCommand) error

	// Unblocks a command by name.
	DeleteBlockedCommand(ctx context.Context, name string) error
}

// LoadBlocklist reads every name stored in s into a Blocklist.
func LoadBlocklist(ctx context.Context, s BlocklistService) (*Blocklist, error) {
	cmds, err := s.FindBlockedCommands(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return NewBlocklist(names...), nil
}
