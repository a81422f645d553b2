package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/storage"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Save and restore copies of the local data",
		Long: `Checkpoints are copies of the local database kept next to it.
An automatic checkpoint is taken before bulk deletes, imports and pay-all.`,
	}

	cmd.AddCommand(checkpointCreateCmd())
	cmd.AddCommand(checkpointListCmd())
	cmd.AddCommand(checkpointRestoreCmd())
	cmd.AddCommand(checkpointDeleteCmd())

	return cmd
}

// withCheckpoints runs fn with a loaded workspace and its checkpoint manager.
func withCheckpoints(cmd *cobra.Command, fn func(ctx context.Context, ws *workspace, cm *storage.CheckpointManager) error) error {
	return withWorkspace(cmd, func(ctx context.Context, ws *workspace) error {
		cm, err := storage.NewCheckpointManager(ws.store)
		if err != nil {
			if errors.Is(err, storage.ErrInMemoryDatabase) {
				return fmt.Errorf("checkpoints need a database file, not %s", ws.store.Path())
			}
			return err
		}
		return fn(ctx, ws, cm)
	})
}

func checkpointCreateCmd() *cobra.Command {
	var (
		tag         string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save a checkpoint of the local data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCheckpoints(cmd, func(ctx context.Context, _ *workspace, cm *storage.CheckpointManager) error {
				cp, err := cm.Create(ctx, tag, description)
				if errors.Is(err, storage.ErrCheckpointExists) {
					return fmt.Errorf("checkpoint %q already exists", tag)
				}
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "Created checkpoint %s (%d transactions)", cp.ID, cp.Counts[storage.KeyTransactions])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "checkpoint name (default: timestamp)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the checkpoint is for")

	return cmd
}

func checkpointListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checkpoints, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCheckpoints(cmd, func(ctx context.Context, _ *workspace, cm *storage.CheckpointManager) error {
				list, err := cm.List(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					info(out, "No checkpoints")
					return nil
				}

				rows := make([][]string, 0, len(list))
				for _, cp := range list {
					kind := "manual"
					if cp.IsAuto {
						kind = "auto"
					}
					rows = append(rows, []string{
						cp.ID,
						cp.CreatedAt.Local().Format("2006-01-02 15:04"),
						kind,
						strconv.Itoa(cp.Counts[storage.KeyTransactions]),
						cp.Description,
					})
				}
				fmt.Fprintln(out, cli.RenderTable([]string{"ID", "Created", "Kind", "Transactions", "Description"}, rows))
				return nil
			})
		},
	}
}

func checkpointRestoreCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the current data with a checkpoint",
		Long: `Restore replaces every record with the checkpoint's contents. When logged
in the restored data is also pushed to the server. The current data is
saved as an automatic checkpoint first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCheckpoints(cmd, func(ctx context.Context, ws *workspace, cm *storage.CheckpointManager) error {
				snap, err := cm.Read(ctx, args[0])
				if errors.Is(err, storage.ErrCheckpointNotFound) {
					return fmt.Errorf("checkpoint %q not found", args[0])
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				p := newPrompter(cmd)
				p.AssumeYes = yes
				ok, err := p.Confirm(ctx, fmt.Sprintf("Replace current data with %s (%d transactions)?", args[0], len(snap.Transactions)))
				if err != nil {
					return err
				}
				if !ok {
					info(out, "Nothing restored")
					return nil
				}

				ws.autoCheckpoint(ctx, "restore")
				if err := ws.ctrl.Replace(ctx, snap); err != nil {
					return err
				}
				success(out, "Restored checkpoint %s", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func checkpointDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCheckpoints(cmd, func(ctx context.Context, _ *workspace, cm *storage.CheckpointManager) error {
				if err := cm.Delete(ctx, args[0]); err != nil {
					if errors.Is(err, storage.ErrCheckpointNotFound) {
						return fmt.Errorf("checkpoint %q not found", args[0])
					}
					return err
				}
				success(cmd.OutOrStdout(), "Deleted checkpoint %s", args[0])
				return nil
			})
		},
	}
}
