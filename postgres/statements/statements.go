package statements

const (
	CreateBlockedCommandsTable = `
		CREATE TABLE IF NOT EXISTS blocked_commands (
			id bigserial PRIMARY KEY,
			name text NOT NULL UNIQUE,
			created_at timestamptz NOT NULL
		);
	`

	AddBlockedCommand = `
		INSERT INTO blocked_commands (name, created_at)
		VALUES ($1, $2) RETURNING id;
	`

	DeleteBlockedCommand = `
		DELETE FROM blocked_commands WHERE name = $1;
	`

	GetAllBlockedCommands = `
		SELECT id, name, created_at FROM blocked_commands ORDER BY name ASC;
	`
)
