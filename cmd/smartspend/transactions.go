package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/tracker"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and browse expenses",
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(editTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(bulkDeleteCmd())

	return cmd
}

func today() string {
	return model.FormatDate(time.Now())
}

func addTransactionCmd() *cobra.Command {
	var category, date, note string

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount("amount", args[0])
			if err != nil {
				return err
			}
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				t, err := ws.ctrl.AddTransaction(ctx, tracker.TransactionInput{
					CategoryID: category,
					Date:       date,
					Note:       note,
					Amount:     amount,
				})
				if err != nil {
					return explain(err)
				}
				cat, _ := model.LookupCategory(ws.ctrl.Snapshot().Categories, t.CategoryID)
				success(cmd.OutOrStdout(), "Recorded %s in %s on %s (%s)", cli.FormatMoney(t.Amount), cat.Name, t.Date, t.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "c1", "category id")
	cmd.Flags().StringVarP(&date, "date", "d", today(), "date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "note")

	return cmd
}

func findTransaction(snap model.Snapshot, id string) (model.Transaction, bool) {
	for _, t := range snap.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

func editTransactionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				t, ok := findTransaction(ws.ctrl.Snapshot(), args[0])
				if !ok {
					return fmt.Errorf("transaction %q not found", args[0])
				}

				in := tracker.TransactionInput{CategoryID: t.CategoryID, Date: t.Date, Note: t.Note, Amount: t.Amount}
				flags := cmd.Flags()
				if flags.Changed("amount") {
					raw, _ := flags.GetString("amount")
					v, err := parseAmount("amount", raw)
					if err != nil {
						return err
					}
					in.Amount = v
				}
				if flags.Changed("category") {
					in.CategoryID, _ = flags.GetString("category")
				}
				if flags.Changed("date") {
					in.Date, _ = flags.GetString("date")
				}
				if flags.Changed("note") {
					in.Note, _ = flags.GetString("note")
				}

				if err := ws.ctrl.UpdateTransaction(ctx, t.ID, in); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Updated %s", t.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringP("amount", "a", "", "new amount")
	cmd.Flags().StringP("category", "c", "", "new category id")
	cmd.Flags().StringP("date", "d", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringP("note", "n", "", "new note")

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				if err := ws.ctrl.DeleteTransaction(ctx, args[0]); err != nil {
					return explain(err)
				}
				success(cmd.OutOrStdout(), "Deleted %s", args[0])
				return nil
			})
		},
	}
}

func listTransactionsCmd() *cobra.Command {
	var filter derive.Filter
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWorkspace(cmd, func(_ context.Context, ws *workspace) error {
				ws.ctrl.SetFilter(filter)
				h := ws.ctrl.History()
				out := cmd.OutOrStdout()
				if h.Count == 0 {
					info(out, "No transactions found")
					return nil
				}

				cats := ws.ctrl.Snapshot().Categories
				rows := make([][]string, 0, len(h.Transactions))
				for i, t := range h.Transactions {
					if limit > 0 && i >= limit {
						break
					}
					cat, _ := model.LookupCategory(cats, t.CategoryID)
					rows = append(rows, []string{t.ID, t.Date, cli.Swatch(cat.Color) + " " + cat.Name, cli.FormatMoney(t.Amount), t.Note})
				}
				fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Date", "Category", "Amount", "Note"}, rows))
				fmt.Fprintf(out, "\n%d transactions · %s\n", h.Count, cli.FormatMoney(h.Total))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filter.Term, "search", "s", "", "match note or amount")
	cmd.Flags().StringVarP(&filter.CategoryID, "category", "c", "", "category id")
	cmd.Flags().StringVar(&filter.StartDate, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.EndDate, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "show at most this many rows")

	return cmd
}

func bulkDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "bulk-delete <day|week|month> [anchor]",
		Short: "Delete every expense of a day, week or month",
		Long: `Delete every expense in a span around the anchor date.

day and week take a YYYY-MM-DD anchor (weeks run Monday to Sunday); month
takes YYYY-MM. The anchor defaults to today.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := derive.ParseBulkScope(args[0])
			if err != nil {
				return err
			}
			anchor := today()
			if scope == derive.BulkMonth {
				anchor = model.MonthKey(time.Now())
			}
			if len(args) == 2 {
				anchor = args[1]
			}

			return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
				r, count, err := ws.ctrl.PreviewBulkDelete(scope, anchor)
				if err != nil {
					return explain(err)
				}
				out := cmd.OutOrStdout()
				if count == 0 {
					info(out, "No transactions in %s", r)
					return nil
				}

				p := newPrompter(cmd)
				p.AssumeYes = yes
				ok, err := p.Confirm(ctx, fmt.Sprintf("Delete %d transactions in %s?", count, r))
				if err != nil {
					return err
				}
				if !ok {
					info(out, "Nothing deleted")
					return nil
				}

				ws.autoCheckpoint(ctx, "bulk-delete")
				n, err := ws.ctrl.BulkDelete(ctx, scope, anchor)
				if err != nil {
					return explain(err)
				}
				success(out, "Deleted %d transactions", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}
