package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/tui"
	"github.com/Veraticus/smartspend/internal/tui/themes"
)

func summaryCmd() *cobra.Command {
	var month, view string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a month at a glance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseMonth(month)
			if err != nil {
				return err
			}
			mode, err := derive.ParseViewMode(view)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				ws.ctrl.SetPeriod(t)
				ws.ctrl.SetView(mode)
				fmt.Fprint(cmd.OutOrStdout(), renderSummary(ws.ctrl.Dashboard(), ws.ctrl.Snapshot().Categories))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month (YYYY-MM), default this month")
	cmd.Flags().StringVar(&view, "view", string(derive.ViewDaily), "chart buckets: daily, weekly, monthly")

	return cmd
}

func renderLimit(l derive.LimitStatus) string {
	verdict := cli.FormatSuccess(fmt.Sprintf("%s under the allowance", cli.FormatMoney(l.Diff)))
	if !l.Safe {
		verdict = cli.FormatWarning(fmt.Sprintf("%s over the allowance", cli.FormatMoney(-l.Diff)))
	}
	return fmt.Sprintf("Daily limit %s · %d days · allowance %s · spent %s\n%s\n",
		cli.FormatMoney(l.DailyLimit), l.DaysElapsed, cli.FormatMoney(l.Accumulated), cli.FormatMoney(l.Spent), verdict)
}

func renderSummary(d derive.Dashboard, categories []model.Category) string {
	var b strings.Builder

	fmt.Fprintln(&b, cli.FormatTitle(fmt.Sprintf("%s %s", cli.WalletIcon, d.Period.Format("January 2006"))))
	fmt.Fprintf(&b, "Spent %s across %d expenses\n", cli.FormatMoney(d.Aggregate.Total), d.Aggregate.Count)
	if d.Limit.Configured {
		b.WriteString(renderLimit(d.Limit))
	}

	var bars [][]string
	for _, bk := range d.Buckets {
		if bk.Count == 0 {
			continue
		}
		label := bk.Label
		if bk.OverLimit {
			label += " !"
		}
		bars = append(bars, []string{label, cli.FormatMoney(bk.Total), fmt.Sprint(bk.Count)})
	}
	if len(bars) > 0 {
		fmt.Fprintf(&b, "\n%s\n", cli.FormatTitle(fmt.Sprintf("Spending (%s)", d.View)))
		b.WriteString(cli.RenderTable([]string{"Period", "Spent", "Count"}, bars) + "\n")
	}

	if len(d.Categories) > 0 {
		fmt.Fprintf(&b, "\n%s\n", cli.FormatTitle("By category"))
		rows := make([][]string, 0, len(d.Categories))
		for _, c := range d.Categories {
			budget := "-"
			if c.Category.BudgetLimit > 0 {
				budget = cli.FormatMoney(c.Category.BudgetLimit)
			}
			if c.Over {
				budget += " (over by " + cli.FormatMoney(c.OverBy) + ")"
			}
			rows = append(rows, []string{cli.Swatch(c.Category.Color) + " " + c.Category.Name, cli.FormatMoney(c.Total), budget})
		}
		b.WriteString(cli.RenderTable([]string{"Category", "Spent", "Budget"}, rows) + "\n")
	}

	if len(d.Recent) > 0 {
		fmt.Fprintf(&b, "\n%s\n", cli.FormatTitle("Recent"))
		rows := make([][]string, 0, len(d.Recent))
		for _, t := range d.Recent {
			cat, _ := model.LookupCategory(categories, t.CategoryID)
			rows = append(rows, []string{t.Date, cat.Name, cli.FormatMoney(t.Amount), t.Note})
		}
		b.WriteString(cli.RenderTable([]string{"Date", "Category", "Amount", "Note"}, rows) + "\n")
	}

	fmt.Fprintf(&b, "\nInstallments: %s due monthly across %d active plans\n", cli.FormatMoney(d.MonthlyDue), d.ActiveInstalls)
	if len(d.Portfolio.Legend) > 0 {
		fmt.Fprintf(&b, "Investments: net %s on %s invested\n", cli.FormatSigned(d.Portfolio.TotalNet), cli.FormatMoney(d.Portfolio.TotalInvested))
	}
	if len(d.Goals) > 0 {
		fmt.Fprintf(&b, "Goals: %d tracked\n", len(d.Goals))
	}
	fmt.Fprintf(&b, "Todos: %d open\n", d.TodosRemaining)

	return b.String()
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				return tui.Run(ctx,
					tui.WithController(ws.ctrl),
					tui.WithTheme(themes.ByName(string(ws.ctrl.Theme()))),
				)
			})
		},
	}
}
