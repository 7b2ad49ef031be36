package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tubepost/internal/state"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the last processed item",
	}
	stateCmd.AddCommand(newStateShowCommand(ctx))
	stateCmd.AddCommand(newStateSetCommand(ctx))
	stateCmd.AddCommand(newStateClearCommand(ctx))
	return stateCmd
}

func newStateShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored identifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store state.Store) error {
				value, found, err := store.Get(cmd.Context())
				if err != nil {
					return err
				}
				if !found {
					value = "(none)"
				}
				rows := [][]string{
					{"Backend", store.Describe()},
					{"Last processed", value},
				}
				out := cmd.OutOrStdout()
				view := tableSpec{headers: []string{"Field", "Value"}, rows: rows, colorize: shouldColorize(out)}
				fmt.Fprintln(out, view.render())
				return nil
			})
		},
	}
}

func newStateSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <id>",
		Short: "Mark an item as processed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("id must not be empty")
			}
			return ctx.withStore(func(store state.Store) error {
				if err := store.Set(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in %s\n", id, store.Describe())
				return nil
			})
		},
	}
}

func newStateClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored identifier so the newest item is processed again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store state.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Describe())
				return nil
			})
		},
	}
}
