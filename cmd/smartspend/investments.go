package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/tracker"
)

func investmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "investments",
		Aliases: []string{"inv"},
		Short:   "Follow money put into and taken out of investments",
	}

	cmd.AddCommand(listInvestmentsCmd())
	cmd.AddCommand(addInvestmentCmd())
	cmd.AddCommand(editInvestmentCmd())
	cmd.AddCommand(deleteInvestmentCmd())
	cmd.AddCommand(recordInvestmentCmd())

	return cmd
}

func listInvestmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the portfolio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				pf := ws.ctrl.Dashboard().Portfolio
				out := cmd.OutOrStdout()
				if len(pf.Legend) == 0 {
					info(out, "No investments. Use 'smartspend investments add' to create one.")
					return nil
				}

				rows := make([][]string, 0, len(pf.Legend))
				for _, h := range pf.Legend {
					rows = append(rows, []string{h.ID, cli.Swatch(h.Color) + " " + h.Name, cli.FormatSigned(h.Net), cli.FormatPercent(h.Share)})
				}
				fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Name", "Net", "Share of profit"}, rows))
				fmt.Fprintf(out, "\nInvested %s · Revenue %s · Net %s · Monthly target %s\n",
					cli.FormatMoney(pf.TotalInvested), cli.FormatMoney(pf.TotalRevenue),
					cli.FormatSigned(pf.TotalNet), cli.FormatMoney(pf.TotalMonthlyTarget))
				return nil
			})
		},
	}
}

func investmentFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "holding name")
	cmd.Flags().String("color", "", "hex color")
	cmd.Flags().String("target", "", "monthly contribution target")
}

func applyInvestmentFlags(cmd *cobra.Command, in *tracker.InvestmentInput) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name, _ = flags.GetString("name")
	}
	if flags.Changed("color") {
		in.Color, _ = flags.GetString("color")
	}
	if flags.Changed("target") {
		raw, _ := flags.GetString("target")
		v, err := parseAmount("target", raw)
		if err != nil {
			return err
		}
		in.MonthlyTarget = v
	}
	return nil
}

func addInvestmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holding",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in tracker.InvestmentInput
			if err := applyInvestmentFlags(cmd, &in); err != nil {
				return err
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				inv, err := ws.ctrl.AddInvestment(ctx, in)
				if err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Added %s (%s)", inv.Name, inv.ID)
				return nil
			})
		},
	}
	investmentFlags(cmd)
	return cmd
}

func findInvestment(snap model.Snapshot, id string) (model.Investment, bool) {
	for _, inv := range snap.Investments {
		if inv.ID == id {
			return inv, true
		}
	}
	return model.Investment{}, false
}

func editInvestmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				inv, ok := findInvestment(ws.ctrl.Snapshot(), args[0])
				if !ok {
					return fmt.Errorf("investment %q not found", args[0])
				}
				in := tracker.InvestmentInput{Name: inv.Name, Color: inv.Color, MonthlyTarget: inv.MonthlyTarget}
				if err := applyInvestmentFlags(cmd, &in); err != nil {
					return err
				}
				if err := ws.ctrl.UpdateInvestment(ctx, inv.ID, in); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Updated %s", in.Name)
				return nil
			})
		},
	}
	investmentFlags(cmd)
	return cmd
}

func deleteInvestmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a holding and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.DeleteInvestment(ctx, args[0]); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Deleted investment %s", args[0])
				return nil
			})
		},
	}
}

func recordInvestmentCmd() *cobra.Command {
	var outflow, inflow string

	cmd := &cobra.Command{
		Use:   "record <id>",
		Short: "Record money put in (--out) or taken out (--in)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out, in float64
			var err error
			if outflow != "" {
				if out, err = parseAmount("outflow", outflow); err != nil {
					return err
				}
			}
			if inflow != "" {
				if in, err = parseAmount("inflow", inflow); err != nil {
					return err
				}
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				inv, err := ws.ctrl.AppendInvestmentEntry(ctx, args[0], out, in)
				if err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "%s: invested %s, revenue %s, net %s",
					inv.Name, cli.FormatMoney(inv.Invested), cli.FormatMoney(inv.Revenue), cli.FormatSigned(inv.Net()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&outflow, "out", "", "amount put in")
	cmd.Flags().StringVar(&inflow, "in", "", "amount taken out")

	return cmd
}
