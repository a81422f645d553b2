package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/tracker"
)

func installmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "installments",
		Aliases: []string{"inst"},
		Short:   "Track installment plans",
	}

	cmd.AddCommand(listInstallmentsCmd())
	cmd.AddCommand(addInstallmentCmd())
	cmd.AddCommand(editInstallmentCmd())
	cmd.AddCommand(deleteInstallmentCmd())
	cmd.AddCommand(scheduleInstallmentCmd())
	cmd.AddCommand(toggleInstallmentCmd())
	cmd.AddCommand(payAllInstallmentsCmd())

	return cmd
}

func listInstallmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installment plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				insts := ws.ctrl.Snapshot().Installments
				out := cmd.OutOrStdout()
				if len(insts) == 0 {
					info(out, "No installment plans. Use 'smartspend installments add' to create one.")
					return nil
				}

				rows := make([][]string, 0, len(insts))
				for _, inst := range insts {
					s := derive.SummarizeInstallment(inst)
					rows = append(rows, []string{
						inst.ID,
						inst.Name,
						cli.FormatMoney(s.Monthly),
						fmt.Sprintf("%d/%d", inst.PaidMonths, inst.Term),
						cli.FormatMoney(s.PaidAmount),
						cli.FormatMoney(s.RemainingAmount),
						cli.FormatPercent(s.Percent),
					})
				}
				fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Monthly", "Paid", "Paid amount", "Remaining", "Progress"}, rows))
				fmt.Fprintf(out, "\n%s due monthly across %d active plans\n",
					cli.FormatMoney(derive.TotalMonthlyDue(insts)), ws.ctrl.ActiveInstallmentCount())
				return nil
			})
		},
	}
}

func installmentFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "plan name")
	cmd.Flags().String("start", "", "first due date (YYYY-MM-DD)")
	cmd.Flags().String("total", "", "principal")
	cmd.Flags().String("rate", "", "interest percent per period")
	cmd.Flags().Int("term", 0, "number of periods")
}

// applyInstallmentFlags overlays the flags that were set on in.
func applyInstallmentFlags(cmd *cobra.Command, in *tracker.InstallmentInput) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name, _ = flags.GetString("name")
	}
	if flags.Changed("start") {
		in.StartDate, _ = flags.GetString("start")
	}
	if flags.Changed("total") {
		raw, _ := flags.GetString("total")
		v, err := parseAmount("total", raw)
		if err != nil {
			return err
		}
		in.TotalValue = v
	}
	if flags.Changed("rate") {
		raw, _ := flags.GetString("rate")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid rate %q: %w", raw, err)
		}
		in.InterestRate = v
	}
	if flags.Changed("term") {
		in.Term, _ = flags.GetInt("term")
	}
	return nil
}

func addInstallmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an installment plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := tracker.InstallmentInput{StartDate: today()}
			if err := applyInstallmentFlags(cmd, &in); err != nil {
				return err
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				inst, err := ws.ctrl.AddInstallment(ctx, in)
				if err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Added %s: %s/month for %d months (%s)",
					inst.Name, cli.FormatMoney(inst.MonthlyPayment()), inst.Term, inst.ID)
				return nil
			})
		},
	}
	installmentFlags(cmd)
	return cmd
}

func findInstallment(snap model.Snapshot, id string) (model.Installment, bool) {
	for _, inst := range snap.Installments {
		if inst.ID == id {
			return inst, true
		}
	}
	return model.Installment{}, false
}

func editInstallmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an installment plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				inst, ok := findInstallment(ws.ctrl.Snapshot(), args[0])
				if !ok {
					return fmt.Errorf("installment %q not found", args[0])
				}
				in := tracker.InstallmentInput{
					Name:         inst.Name,
					StartDate:    inst.StartDate,
					TotalValue:   inst.TotalValue,
					InterestRate: inst.InterestRate,
					Term:         inst.Term,
				}
				if err := applyInstallmentFlags(cmd, &in); err != nil {
					return err
				}
				if err := ws.ctrl.UpdateInstallment(ctx, inst.ID, in); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Updated %s", in.Name)
				return nil
			})
		},
	}
	installmentFlags(cmd)
	return cmd
}

func deleteInstallmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an installment plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.DeleteInstallment(ctx, args[0]); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Deleted installment %s", args[0])
				return nil
			})
		},
	}
}

func scheduleInstallmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id>",
		Short: "Show every period of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				inst, ok := findInstallment(ws.ctrl.Snapshot(), args[0])
				if !ok {
					return fmt.Errorf("installment %q not found", args[0])
				}
				entries, err := derive.Schedule(inst)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					mark := "[ ]"
					if e.Paid {
						mark = "[x]"
					}
					rows = append(rows, []string{strconv.Itoa(e.Period()), model.FormatDate(e.DueDate), cli.FormatMoney(e.Payment), mark})
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle(inst.Name))
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"Period", "Due", "Payment", "Paid"}, rows))
				return nil
			})
		},
	}
}

func toggleInstallmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <period>",
		Short: "Mark a period paid (with every earlier one) or unpaid (with every later one)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.ToggleInstallmentPeriod(ctx, args[0], index); err != nil {
					return explain(err)
				}
				inst, _ := findInstallment(ws.ctrl.Snapshot(), args[0])
				success(cmd.OutOrStdout(), "%s: %d of %d periods paid", inst.Name, inst.PaidMonths, inst.Term)
				return nil
			})
		},
	}
}

func payAllInstallmentsCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "pay-all",
		Short: "Mark the next period paid on every active plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				out := cmd.OutOrStdout()
				active := ws.ctrl.ActiveInstallmentCount()
				if active == 0 {
					info(out, "No active installment plans")
					return nil
				}

				p := newPrompter(cmd)
				p.AssumeYes = yes
				ok, err := p.Confirm(ctx, fmt.Sprintf("Mark one more period paid on %d plans?", active))
				if err != nil {
					return err
				}
				if !ok {
					info(out, "Nothing changed")
					return nil
				}

				ws.autoCheckpoint(ctx, "pay-all")
				n, err := ws.ctrl.PayAllInstallments(ctx)
				if err != nil {
					return explain(err)
				}
				success(out, "Advanced %d plans", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
