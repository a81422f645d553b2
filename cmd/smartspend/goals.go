package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/tracker"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Save toward goals",
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(editGoalCmd())
	cmd.AddCommand(deleteGoalCmd())
	cmd.AddCommand(goalEntryCmd("deposit", tracker.Deposit, "Add money to a goal"))
	cmd.AddCommand(goalEntryCmd("withdraw", tracker.Withdraw, "Take money out of a goal"))
	cmd.AddCommand(planGoalCmd())

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				goals := ws.ctrl.Dashboard().Goals
				out := cmd.OutOrStdout()
				if len(goals) == 0 {
					info(out, "No goals. Use 'smartspend goals add' to create one.")
					return nil
				}

				rows := make([][]string, 0, len(goals))
				for _, gv := range goals {
					g, p := gv.Goal, gv.Projection
					deadline := g.Deadline
					if deadline == "" {
						deadline = "-"
					}
					rows = append(rows, []string{
						g.ID,
						cli.Swatch(g.Color) + " " + g.Name,
						cli.FormatMoney(g.Current),
						cli.FormatMoney(g.Target),
						cli.FormatPercent(p.Percent),
						deadline,
						string(p.Status),
					})
				}
				fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Saved", "Target", "Progress", "Deadline", "Status"}, rows))
				return nil
			})
		},
	}
}

func goalFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "goal name")
	cmd.Flags().String("color", "", "hex color")
	cmd.Flags().String("deadline", "", "deadline (YYYY-MM-DD), empty for none")
	cmd.Flags().String("target", "", "target amount")
}

func applyGoalFlags(cmd *cobra.Command, in *tracker.GoalInput) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name, _ = flags.GetString("name")
	}
	if flags.Changed("color") {
		in.Color, _ = flags.GetString("color")
	}
	if flags.Changed("deadline") {
		in.Deadline, _ = flags.GetString("deadline")
	}
	if flags.Changed("target") {
		raw, _ := flags.GetString("target")
		v, err := parseAmount("target", raw)
		if err != nil {
			return err
		}
		in.Target = v
	}
	return nil
}

func addGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a savings goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in tracker.GoalInput
			if err := applyGoalFlags(cmd, &in); err != nil {
				return err
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				g, err := ws.ctrl.AddGoal(ctx, in)
				if err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Added goal %s: %s (%s)", g.Name, cli.FormatMoney(g.Target), g.ID)
				return nil
			})
		},
	}
	goalFlags(cmd)
	return cmd
}

func findGoal(snap model.Snapshot, id string) (model.Goal, bool) {
	for _, g := range snap.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return model.Goal{}, false
}

func editGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				g, ok := findGoal(ws.ctrl.Snapshot(), args[0])
				if !ok {
					return fmt.Errorf("goal %q not found", args[0])
				}
				in := tracker.GoalInput{Name: g.Name, Color: g.Color, Deadline: g.Deadline, Target: g.Target}
				if err := applyGoalFlags(cmd, &in); err != nil {
					return err
				}
				if err := ws.ctrl.UpdateGoal(ctx, g.ID, in); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Updated goal %s", in.Name)
				return nil
			})
		},
	}
	goalFlags(cmd)
	return cmd
}

func deleteGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.DeleteGoal(ctx, args[0]); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Deleted goal %s", args[0])
				return nil
			})
		},
	}
}

func goalEntryCmd(use string, kind tracker.EntryKind, short string) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   use + " <id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[1])
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				balance, err := ws.ctrl.AppendGoalEntry(ctx, args[0], kind, amount, note)
				if err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Balance is now %s", cli.FormatMoney(balance))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "entry note")

	return cmd
}

func planGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <id>",
		Short: "Show the savings plan and history of a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				var view *derive.GoalView
				for _, gv := range ws.ctrl.Dashboard().Goals {
					if gv.Goal.ID == args[0] {
						view = &gv
						break
					}
				}
				if view == nil {
					return fmt.Errorf("goal %q not found", args[0])
				}
				fmt.Fprint(cmd.OutOrStdout(), renderGoalPlan(*view))
				return nil
			})
		},
	}
}

func renderGoalPlan(gv derive.GoalView) string {
	g, p := gv.Goal, gv.Projection

	lines := []string{
		fmt.Sprintf("Saved:      %s of %s (%s)", cli.FormatMoney(g.Current), cli.FormatMoney(g.Target), cli.FormatPercent(p.Percent)),
		fmt.Sprintf("Remaining:  %s", cli.FormatMoney(p.Remaining)),
	}
	switch p.Status {
	case derive.GoalComplete:
		lines = append(lines, cli.FormatSuccess("Goal reached"))
	case derive.GoalOverdue:
		lines = append(lines, cli.FormatWarning("The deadline has passed"))
	case derive.GoalNoDeadline:
		lines = append(lines, "No deadline set")
	default:
		lines = append(lines,
			fmt.Sprintf("Deadline:   %s (%d days left)", g.Deadline, p.DaysLeft),
			fmt.Sprintf("Needed:     %s/month over %.1f months", cli.FormatMoney(p.RequiredMonthly), p.MonthsRemaining),
		)
		if p.HasPlan {
			lines = append(lines, fmt.Sprintf("Original:   %s/month over %d months", cli.FormatMoney(p.OriginalMonthly), p.OriginalMonths))
		}
	}

	if len(g.History) > 0 {
		lines = append(lines, "", "History:")
		for i := len(g.History) - 1; i >= 0; i-- {
			e := g.History[i]
			lines = append(lines, fmt.Sprintf("  %s  %14s  %s", e.Date, cli.FormatSigned(e.Amount), e.Note))
		}
	}

	return cli.RenderBox(g.Name, strings.Join(lines, "\n")) + "\n"
}
