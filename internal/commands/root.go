package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/expense-cli/expense/internal/buildinfo"
	"github.com/expense-cli/expense/internal/config"
	"github.com/expense-cli/expense/internal/expense"
	"github.com/expense-cli/expense/internal/logger"
	"github.com/expense-cli/expense/internal/store"
)

// HelpText is printed for help and for any unrecognized command.
const HelpText = `An expense recording system

Commands:

add AMOUNT MEMO [DATE] - record a new expense
clear - delete all expenses
list - list all expenses
delete NUMBER - remove expense with id NUMBER
search QUERY - list expenses with a matching memo field
`

// Opener connects to the expense database for one command.
type Opener func(ctx context.Context) (expense.Repository, io.Closer, error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openStore)
}

func newRootCommand(open Opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "expense",
		Short:   "An expense recording system",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.ArbitraryArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeHelp(cmd.OutOrStdout())
		},
	}
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		_ = writeHelp(cmd.OutOrStdout())
	})

	rootCmd.AddCommand(
		newAddCommand(open),
		newListCommand(open),
		newSearchCommand(open),
		newDeleteCommand(open),
		newClearCommand(open),
	)

	return rootCmd
}

func writeHelp(w io.Writer) error {
	_, err := io.WriteString(w, HelpText)
	return err
}

// openStore resolves configuration, installs the logger and opens the
// PostgreSQL store.
func openStore(ctx context.Context) (expense.Repository, io.Closer, error) {
	cfg, err := config.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.Init(cfg.Log)

	s, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

// withService opens the database, runs fn and closes the database again.
func withService(cmd *cobra.Command, open Opener, fn func(ctx context.Context, svc *expense.Service) error) error {
	ctx := cmd.Context()

	repo, closer, err := open(ctx)
	if err != nil {
		slog.Error("opening database failed", "command", cmd.Name(), "error", err)
		return err
	}
	defer closer.Close()

	svc := expense.NewService(repo, cmd.OutOrStdout(),
		expense.WithLogger(slog.Default().With("command", cmd.Name())))

	if err := fn(ctx, svc); err != nil {
		slog.Error("command failed", "command", cmd.Name(), "error", err)
		return err
	}
	return nil
}

// arg returns args[i], or "" when absent.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
