package sqlite

import (
	"context"

	"github.com/havce/cmdblock"
)

// Ensure service implements interface.
var _ cmdblock.BlocklistService = (*BlocklistService)(nil)

type BlocklistService struct {
	db *DB
}

func NewBlocklistService(db *DB) *BlocklistService {
	return &BlocklistService{
		db: db,
	}
}

func (s *BlocklistService) FindBlockedCommands(ctx context.Context) ([]*cmdblock.BlockedCommand, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	return findBlockedCommands(ctx, tx)
}

func (s *BlocklistService) CreateBlockedCommand(ctx context.Context, cmd *cmdblock.BlockedCommand) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := createBlockedCommand(ctx, tx, cmd); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *BlocklistService) DeleteBlockedCommand(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := deleteBlockedCommand(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func findBlockedCommands(ctx context.Context, tx *Tx) (_ []*cmdblock.BlockedCommand, err error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT
		    id,
		    name,
		    created_at
		FROM blocked_commands
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, FormatError(err)
	}
	defer rows.Close()

	// Iterate over rows and deserialize into BlockedCommand objects.
	cmds := make([]*cmdblock.BlockedCommand, 0)
	for rows.Next() {
		var cmd cmdblock.BlockedCommand
		if err := rows.Scan(
			&cmd.ID,
			&cmd.Name,
			(*NullTime)(&cmd.CreatedAt),
		); err != nil {
			return nil, err
		}
		cmds = append(cmds, &cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cmds, nil
}

// createBlockedCommand inserts a new blocked command.
func createBlockedCommand(ctx context.Context, tx *Tx, cmd *cmdblock.BlockedCommand) error {
	cmd.CreatedAt = tx.now

	// Perform basic field validation.
	if err := cmd.Validate(); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO blocked_commands (
			name,
			created_at
		)
		VALUES (?, ?)
	`,
		cmd.Name,
		(*NullTime)(&cmd.CreatedAt),
	)
	if err != nil {
		return FormatError(err)
	}

	// Read back new ID into caller argument.
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	cmd.ID = int(id)

	return nil
}

// deleteBlockedCommand permanently removes a blocked command by name.
func deleteBlockedCommand(ctx context.Context, tx *Tx, name string) error {
	cmd := cmdblock.BlockedCommand{Name: name}
	if err := cmd.Validate(); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM blocked_commands WHERE name = ?`, cmd.Name)
	if err != nil {
		return FormatError(err)
	}

	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return cmdblock.Errorf(cmdblock.ENOTFOUND, "Command %q is not blocked.", cmd.Name)
	}
	return nil
}
