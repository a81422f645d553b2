package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/tracker"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List, add, update, and delete the categories expenses are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(editCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories with this month's spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				snap := ws.ctrl.Snapshot()
				if len(snap.Categories) == 0 {
					info(cmd.OutOrStdout(), "No categories found. Use 'smartspend categories add' to create one.")
					return nil
				}

				spent := map[string]float64{}
				for _, s := range ws.ctrl.Dashboard().Categories {
					spent[s.Category.ID] = s.Total
				}

				rows := make([][]string, 0, len(snap.Categories))
				for _, c := range snap.Categories {
					limit := "-"
					if c.BudgetLimit > 0 {
						limit = cli.FormatMoney(c.BudgetLimit)
					}
					rows = append(rows, []string{c.ID, cli.Swatch(c.Color) + " " + c.Name, limit, cli.FormatMoney(spent[c.ID])})
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"ID", "Name", "Budget", "Spent this month"}, rows))
				return nil
			})
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var color, limit string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tracker.CategoryInput{Name: args[0], Color: color}
			if limit != "" {
				v, err := parseAmount("limit", limit)
				if err != nil {
					return err
				}
				in.BudgetLimit = v
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				c, err := ws.ctrl.AddCategory(ctx, in)
				if err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Added category %s (%s)", c.Name, c.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "hex color, e.g. #f97316")
	cmd.Flags().StringVar(&limit, "limit", "", "monthly budget limit")

	return cmd
}

func editCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Aliases: []string{"update"},
		Short:   "Rename, recolor or re-budget a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				cat, ok := model.LookupCategory(ws.ctrl.Snapshot().Categories, args[0])
				if !ok {
					return fmt.Errorf("category %q not found", args[0])
				}

				in := tracker.CategoryInput{Name: cat.Name, Color: cat.Color, BudgetLimit: cat.BudgetLimit}
				flags := cmd.Flags()
				if flags.Changed("name") {
					in.Name, _ = flags.GetString("name")
				}
				if flags.Changed("color") {
					in.Color, _ = flags.GetString("color")
				}
				if flags.Changed("limit") {
					raw, _ := flags.GetString("limit")
					v, err := parseAmount("limit", raw)
					if err != nil {
						return err
					}
					in.BudgetLimit = v
				}

				if err := ws.ctrl.UpdateCategory(ctx, cat.ID, in); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Updated category %s", in.Name)
				return nil
			})
		},
	}

	cmd.Flags().String("name", "", "new name")
	cmd.Flags().String("color", "", "new hex color")
	cmd.Flags().String("limit", "", "new monthly budget limit (0 removes it)")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category; its expenses show as Other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.DeleteCategory(ctx, args[0]); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Deleted category %s", args[0])
				return nil
			})
		},
	}
}

func limitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Manage the daily spending limit",
		Long: `Each month carries its own daily spending limit. The allowance for a
month grows by the daily limit every day that passes.`,
	}

	cmd.AddCommand(setLimitCmd())
	cmd.AddCommand(showLimitCmd())

	return cmd
}

func parseMonth(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(model.MonthLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", raw)
	}
	return t, nil
}

func setLimitCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "set <daily-amount>",
		Short: "Set the daily limit for a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("limit", args[0])
			if err != nil {
				return err
			}
			t, err := parseMonth(month)
			if err != nil {
				return err
			}
			key := model.MonthKey(t)
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.SetMonthlyLimit(ctx, key, amount); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Daily limit for %s set to %s", key, cli.FormatMoney(amount))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month (YYYY-MM), default this month")

	return cmd
}

func showLimitCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Compare a month's spending with its allowance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseMonth(month)
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				ws.ctrl.SetPeriod(t)
				d := ws.ctrl.Dashboard()
				out := cmd.OutOrStdout()
				if !d.Limit.Configured {
					info(out, "No daily limit set for %s", model.MonthKey(t))
					return nil
				}
				fmt.Fprint(out, renderLimit(d.Limit))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month (YYYY-MM), default this month")

	return cmd
}
