package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/tracker"
)

func todosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Keep a short financial to-do list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List todos, open first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				todos := ws.ctrl.Todos()
				if len(todos) == 0 {
					info(cmd.OutOrStdout(), "Nothing to do")
					return nil
				}
				rows := make([][]string, 0, len(todos))
				for _, t := range todos {
					mark := "[ ]"
					if t.Completed {
						mark = "[x]"
					}
					rows = append(rows, []string{t.ID, mark, t.Text})
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"ID", "Done", "Todo"}, rows))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add a todo to the top of the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				t, err := ws.ctrl.AddTodo(ctx, args[0])
				if err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Added %q (%s)", t.Text, t.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a todo done or open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				done, err := ws.ctrl.ToggleTodo(ctx, args[0])
				if err != nil {
					return explain(err)
				}
				state := "open"
				if done {
					state = "done"
				}
				success(cmd.OutOrStdout(), "Marked %s %s", args[0], state)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.DeleteTodo(ctx, args[0]); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Deleted %s", args[0])
				return nil
			})
		},
	})

	return cmd
}

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "theme [light|dark]",
		Short: "Show or set the dashboard theme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if len(args) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ws.ctrl.Theme())
					return nil
				}
				t, err := tracker.ParseTheme(args[0])
				if err != nil {
					return explain(err)
				}
				if err := ws.ctrl.SetTheme(ctx, t); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Theme set to %s", t)
				return nil
			})
		},
	}
}
