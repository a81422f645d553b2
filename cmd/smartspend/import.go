package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/ofx"
	"github.com/Veraticus/smartspend/internal/tracker"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import expenses from bank exports",
	}

	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ofx [files...]",
		Short: "Import expenses from OFX/QFX files",
		Long: `Import debits from OFX or QFX (Quicken) files exported from your bank.

Credits are skipped, as are lines already in your history (same date,
amount and note) and repeats of a bank transaction id.

Examples:
  # Import single file
  smartspend import ofx ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory under one category
  smartspend import ofx --category c2 ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().StringP("category", "c", "c1", "category id for imported expenses")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func parseOFXFiles(ctx context.Context, files []string, progress *cli.Progress) ([]ofx.Entry, error) {
	parser := ofx.NewParser()
	var all []ofx.Entry
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path) //nolint:gosec
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		entries, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		slog.Debug("Parsed OFX file", "file", path, "entries", len(entries))
		all = append(all, entries...)
		progress.Step()
	}
	progress.Finish()
	return all, nil
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	handler := cli.NewInterruptHandler(out)
	ctx := handler.HandleInterrupts(cmd.Context(), "Nothing was imported.")

	entries, err := parseOFXFiles(ctx, files, cli.NewProgress(cmd.ErrOrStderr(), len(files), "Reading statements"))
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}

	expenses := ofx.Expenses(entries)
	slog.Info("Read statements", "files", len(files), "entries", len(entries), "debits", len(expenses))

	return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
		fresh := ofx.Dedupe(expenses, ws.ctrl.Snapshot().Transactions)
		if skipped := len(expenses) - len(fresh); skipped > 0 {
			info(out, "Skipping %d expenses already in your history", skipped)
		}
		if len(fresh) == 0 {
			info(out, "Nothing new to import")
			return nil
		}

		if dryRun {
			rows := make([][]string, 0, len(fresh))
			for _, e := range fresh {
				rows = append(rows, []string{e.Date, cli.FormatMoney(e.Amount), e.Note, e.Account})
			}
			fmt.Fprintln(out, cli.RenderTable([]string{"Date", "Amount", "Note", "Account"}, rows))
			info(out, "Dry run: %d expenses would be imported", len(fresh))
			return nil
		}

		inputs := make([]tracker.TransactionInput, 0, len(fresh))
		for _, e := range fresh {
			inputs = append(inputs, tracker.TransactionInput{
				CategoryID: category,
				Date:       e.Date,
				Note:       e.Note,
				Amount:     e.Amount,
			})
		}
		ws.autoCheckpoint(ctx, "import")
		added, err := ws.ctrl.ImportTransactions(ctx, inputs)
		if err != nil {
			return explain(err)
		}
		success(out, "Imported %d expenses", len(added))
		return nil
	})
}
