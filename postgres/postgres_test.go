package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/havce/cmdblock"
	"github.com/havce/cmdblock/postgres"
)

// MustOpenDB connects to the database named by CMDBLOCK_POSTGRES_DSN and
// empties the blocked_commands table. The test is skipped without it.
func MustOpenDB(tb testing.TB) *postgres.DB {
	tb.Helper()

	dsn := os.Getenv("CMDBLOCK_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("CMDBLOCK_POSTGRES_DSN not set")
	}

	db, err := postgres.Open(context.Background(), dsn)
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	s := postgres.NewBlocklistService(db)
	cmds, err := s.FindBlockedCommands(context.Background())
	if err != nil {
		tb.Fatal(err)
	}
	for _, c := range cmds {
		if err := s.DeleteBlockedCommand(context.Background(), c.Name); err != nil {
			tb.Fatal(err)
		}
	}
	return db
}

func TestBlocklistService(t *testing.T) {
	s := postgres.NewBlocklistService(MustOpenDB(t))
	ctx := context.Background()

	if err := s.CreateBlockedCommand(ctx, &cmdblock.BlockedCommand{Name: "Ban"}); err != nil {
		t.Fatal(err)
	}

	err := s.CreateBlockedCommand(ctx, &cmdblock.BlockedCommand{Name: "ban"})
	if code := cmdblock.ErrorCode(err); code != cmdblock.ECONFLICT {
		t.Fatalf("duplicate code = %q, want %q (err=%v)", code, cmdblock.ECONFLICT, err)
	}

	b, err := cmdblock.LoadBlocklist(ctx, s)
	if err != nil {
		t.Fatal(err)
	} else if !b.Contains("ban") || b.Len() != 1 {
		t.Fatalf("LoadBlocklist() = %v", b.Names())
	}

	if err := s.DeleteBlockedCommand(ctx, "ban"); err != nil {
		t.Fatal(err)
	}
	err = s.DeleteBlockedCommand(ctx, "ban")
	if code := cmdblock.ErrorCode(err); code != cmdblock.ENOTFOUND {
		t.Fatalf("second delete code = %q, want %q", code, cmdblock.ENOTFOUND)
	}
}
