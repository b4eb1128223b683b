package postgres

import (
	"context"
	"time"

	"github.com/havce/cmdblock"
	"github.com/havce/cmdblock/postgres/statements"
)

// Ensure service implements interface.
var _ cmdblock.BlocklistService = (*BlocklistService)(nil)

type BlocklistService struct {
	db *DB
}

func NewBlocklistService(db *DB) *BlocklistService {
	return &BlocklistService{db: db}
}

func (s *BlocklistService) FindBlockedCommands(ctx context.Context) ([]*cmdblock.BlockedCommand, error) {
	rows, err := s.db.db.QueryContext(ctx, statements.GetAllBlockedCommands)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cmds := []*cmdblock.BlockedCommand{}

	for rows.Next() {
		c := &cmdblock.BlockedCommand{}

		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}

		cmds = append(cmds, c)
	}

	return cmds, rows.Err()
}

func (s *BlocklistService) CreateBlockedCommand(ctx context.Context, cmd *cmdblock.BlockedCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	cmd.CreatedAt = s.db.Now().UTC().Truncate(time.Microsecond)

	row := s.db.db.QueryRowContext(ctx, statements.AddBlockedCommand, cmd.Name, cmd.CreatedAt)
	if err := row.Scan(&cmd.ID); err != nil {
		if isUniqueViolation(err) {
			return cmdblock.Errorf(cmdblock.ECONFLICT, "Command %q already blocked.", cmd.Name)
		}
		return err
	}

	return nil
}

func (s *BlocklistService) DeleteBlockedCommand(ctx context.Context, name string) error {
	cmd := cmdblock.BlockedCommand{Name: name}
	if err := cmd.Validate(); err != nil {
		return err
	}

	res, err := s.db.db.ExecContext(ctx, statements.DeleteBlockedCommand, cmd.Name)
	if err != nil {
		return err
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return cmdblock.Errorf(cmdblock.ENOTFOUND, "Command %q is not blocked.", cmd.Name)
	}

	return nil
}
