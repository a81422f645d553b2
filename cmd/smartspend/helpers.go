package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/common"
	"github.com/Veraticus/smartspend/internal/config"
	"github.com/Veraticus/smartspend/internal/remote"
	"github.com/Veraticus/smartspend/internal/storage"
	"github.com/Veraticus/smartspend/internal/tracker"
)

// workspace is everything a command needs to read or change local data.
type workspace struct {
	store   *storage.SQLiteStorage
	session *remote.Session
	ctrl    *tracker.Controller
	cfg     config.App
}

// initStorage opens the local database and runs migrations.
func initStorage(ctx context.Context, path string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openSession opens storage and restores the remote session without loading
// any tracker data.
func openSession(ctx context.Context) (*workspace, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg.DataPath)
	if err != nil {
		return nil, err
	}

	session := remote.NewSession(ctx, store, remote.SessionOptions{
		Logger:     slog.Default(),
		DefaultURL: cfg.RemoteURL,
	})

	return &workspace{store: store, session: session, cfg: cfg}, nil
}

// openWorkspace opens storage and loads the controller, merging remote data
// when a user is logged in.
func openWorkspace(ctx context.Context) (*workspace, error) {
	ws, err := openSession(ctx)
	if err != nil {
		return nil, err
	}

	ws.ctrl = newController(ws)
	if _, err := ws.ctrl.Load(ctx); err != nil {
		_ = ws.store.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return ws, nil
}

func newController(ws *workspace) *tracker.Controller {
	return tracker.New(ws.store, ws.session, tracker.Options{Logger: slog.Default()})
}

// Close waits for background pushes and closes storage.
func (w *workspace) Close() error {
	if w.ctrl != nil {
		w.ctrl.Wait()
	}
	return w.store.Close()
}

// withWorkspace runs fn with a loaded workspace and closes it afterwards.
func withWorkspace(cmd *cobra.Command, fn func(ctx context.Context, ws *workspace) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			slog.Warn("Failed to close storage", "error", cerr)
		}
	}()

	return fn(ctx, ws)
}

// autoCheckpoint saves a copy of the database before a destructive
// operation. Failures are logged and never block the operation.
func (w *workspace) autoCheckpoint(ctx context.Context, operation string) {
	cm, err := storage.NewCheckpointManager(w.store)
	if err != nil {
		common.LogWarn("Checkpoints unavailable", common.Fields{"operation": operation, "error": err.Error()})
		return
	}
	cp, err := cm.AutoCheckpoint(ctx, operation)
	if err != nil {
		common.LogError(err, "Failed to create automatic checkpoint", common.Fields{"operation": operation})
		return
	}
	common.LogDebug("Created automatic checkpoint", common.Fields{"id": cp.ID, "operation": operation})
}

// explain turns controller errors into user errors.
func explain(err error) error {
	if err == nil {
		return nil
	}
	var fe *tracker.FieldError
	if errors.As(err, &fe) {
		return common.NewUserError(fmt.Sprintf("invalid %s: %s", fe.Field, fe.Reason), fe)
	}
	return err
}

// parseAmount reads a money argument.
func parseAmount(name, raw string) (float64, error) {
	v, err := cli.ParseMoney(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}

// parseIndex reads a 1-based period argument and returns it 0-based.
func parseIndex(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid period %q: want a number starting at 1", raw)
	}
	return n - 1, nil
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf(format, args...)))
}

func info(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf(format, args...)))
}

func newPrompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}
