package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/havce/cmdblock"
	"github.com/havce/cmdblock/internal/config"
	"github.com/havce/cmdblock/internal/store"
	"github.com/spf13/cobra"
)

// Build version, injected during build.
var (
	version string
	commit  string
)

var (
	blockedSign = color.RedString("x")
	allowedSign = color.GreenString("✓")
)

func main() {
	cmdblock.Version = version
	cmdblock.Commit = commit

	if err := newRootCmd().Execute(); err != nil {
		// Application errors carry a message meant for the user.
		if cmdblock.ErrorCode(err) != cmdblock.EINTERNAL {
			err = errors.New(cmdblock.ErrorMessage(err))
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cmdblock",
		Short:         "Inspect and manage blocked commands",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config-path", config.DefaultPath, "config file path")

	rootCmd.AddCommand(
		checkCmd(),
		listCmd(),
		addCmd(),
		removeCmd(),
	)

	return rootCmd
}

// loadConfig reads the file named by --config-path. A missing file yields
// the defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := config.Expand(cmd.Flag("config-path").Value.String())
	if err != nil {
		return config.Default(), err
	}

	c, err := config.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	return c, err
}

// openStore opens the configured database, which is required for writes.
func openStore(ctx context.Context, c config.Config) (*store.Store, error) {
	if c.DB.DSN == "" {
		return nil, cmdblock.Errorf(cmdblock.EINVALID, "No database configured, set db.dsn.")
	}
	return store.Open(ctx, c.DB.DSN)
}

// loadBlocklist merges the configured and the stored names.
func loadBlocklist(ctx context.Context, c config.Config) (*cmdblock.Blocklist, error) {
	b := cmdblock.NewBlocklist(c.BlockedCommands...)
	if c.DB.DSN == "" {
		return b, nil
	}

	s, err := store.Open(ctx, c.DB.DSN)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	stored, err := cmdblock.LoadBlocklist(ctx, s)
	if err != nil {
		return nil, err
	}
	return cmdblock.Merge(b, stored), nil
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <message>",
		Short: "Tell whether a command would be blocked",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			prefix := c.Prefix
			if cmd.Flags().Changed("prefix") {
				prefix, _ = cmd.Flags().GetString("prefix")
			}
			r, err := config.ParsePrefix(prefix)
			if err != nil {
				return err
			}

			b, err := loadBlocklist(cmd.Context(), c)
			if err != nil {
				return err
			}

			bypass, _ := cmd.Flags().GetBool("bypass")
			perms := cmdblock.PermissionCheckerFunc(func(cmdblock.Principal, string) bool { return bypass })

			d := cmdblock.NewInterceptor(b, perms, cmdblock.WithPrefix(r)).
				Handle(cmdblock.Event{Message: args[0], Issuer: cliPrincipal{}})

			w := cmd.OutOrStdout()
			if d.Cancel {
				fmt.Fprintf(w, "[%s] blocked, issuer is told: %s\n", blockedSign, d.Message)
				return nil
			}

			label, ok := cmdblock.Label(args[0], r)
			switch {
			case !ok:
				fmt.Fprintf(w, "[%s] allowed, not a command\n", allowedSign)
			case bypass && b.Contains(label):
				fmt.Fprintf(w, "[%s] allowed, %s bypassed\n", allowedSign, cmdblock.BypassPermission)
			default:
				fmt.Fprintf(w, "[%s] allowed, %q is not blocked\n", allowedSign, label)
			}
			return nil
		},
	}

	cmd.Flags().Bool("bypass", false, "issue the command with the bypass permission")
	cmd.Flags().String("prefix", config.DefaultPrefix, "command prefix, overrides the config file")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List blocked commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range cmdblock.NewBlocklist(c.BlockedCommands...).Names() {
				fmt.Fprintf(w, "%s\t%s\n", name, color.CyanString("config"))
			}

			if c.DB.DSN == "" {
				return nil
			}

			s, err := store.Open(cmd.Context(), c.DB.DSN)
			if err != nil {
				return err
			}
			defer s.Close()

			cmds, err := s.FindBlockedCommands(cmd.Context())
			if err != nil {
				return err
			}
			for _, bc := range cmds {
				fmt.Fprintf(w, "%s\t%s\n", bc.Name, color.MagentaString("db"))
			}
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <command>...",
		Short: "Block commands in the database (applies on the next cmdblockd start)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, name := range args {
				bc := &cmdblock.BlockedCommand{Name: name}
				if err := s.CreateBlockedCommand(cmd.Context(), bc); err != nil {
					return fmt.Errorf("%s: %s", name, cmdblock.ErrorMessage(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] blocked %s\n", allowedSign, bc.Name)
			}
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <command>...",
		Short: "Unblock commands in the database (applies on the next cmdblockd start)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := openStore(cmd.Context(), c)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, name := range args {
				if err := s.DeleteBlockedCommand(cmd.Context(), name); err != nil {
					return fmt.Errorf("%s: %s", name, cmdblock.ErrorMessage(err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] unblocked %s\n", allowedSign, name)
			}
			return nil
		},
	}
}

// cliPrincipal issues the commands given to check.
type cliPrincipal struct{}

func (cliPrincipal) PrincipalID() string { return "cli" }
