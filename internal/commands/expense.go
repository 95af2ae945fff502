package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/expense-cli/expense/internal/expense"
)

// Positional arguments are passed through untouched: missing ones arrive as
// "" and are reported by the service, extras are ignored, and nothing is
// parsed as a flag so "-5" or "--draft" reach validation as typed.
func positional(use, short string, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE:               run,
	}
}

func newAddCommand(open Opener) *cobra.Command {
	return positional("add AMOUNT MEMO [DATE]", "Record a new expense", func(cmd *cobra.Command, args []string) error {
		return withService(cmd, open, func(ctx context.Context, svc *expense.Service) error {
			return svc.Add(ctx, arg(args, 0), arg(args, 1), arg(args, 2))
		})
	})
}

func newListCommand(open Opener) *cobra.Command {
	return positional("list", "List all expenses", func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, open, func(ctx context.Context, svc *expense.Service) error {
			return svc.List(ctx)
		})
	})
}

func newSearchCommand(open Opener) *cobra.Command {
	return positional("search QUERY", "List expenses with a matching memo field", func(cmd *cobra.Command, args []string) error {
		return withService(cmd, open, func(ctx context.Context, svc *expense.Service) error {
			return svc.Search(ctx, arg(args, 0))
		})
	})
}

func newDeleteCommand(open Opener) *cobra.Command {
	return positional("delete NUMBER", "Remove expense with id NUMBER", func(cmd *cobra.Command, args []string) error {
		return withService(cmd, open, func(ctx context.Context, svc *expense.Service) error {
			return svc.Delete(ctx, arg(args, 0))
		})
	})
}

func newClearCommand(open Opener) *cobra.Command {
	return positional("clear", "Delete all expenses", func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, open, func(ctx context.Context, svc *expense.Service) error {
			ok, err := Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), ClearPrompt)
			if err != nil {
				return fmt.Errorf("reading confirmation: %w", err)
			}
			if !ok {
				return nil
			}
			return svc.Clear(ctx)
		})
	})
}
