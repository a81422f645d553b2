package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/smartspend/internal/common"
	"github.com/Veraticus/smartspend/internal/config"
	"github.com/Veraticus/smartspend/internal/server"
	"github.com/Veraticus/smartspend/internal/sheets"
	"github.com/Veraticus/smartspend/internal/userstore"
)

// shutdownTimeout bounds graceful shutdown of the sync server.
const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync server",
		Long: `Run the remote store that clients register with, log in to and sync through.

Users and their data are kept in one of these backends:
  sheets    a Google Sheets tab (Username, Password, Data, LastUpdated)
  sqlite    a local SQLite database
  postgres  a PostgreSQL database
  memory    process memory, lost on exit`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().String("backend", "", "user store backend: sheets, sqlite, postgres, memory")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.backend", cmd.Flags().Lookup("backend"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	store, closer, err := openUserStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closer.Close(); cerr != nil {
			slog.Warn("Failed to close user store", "error", cerr)
		}
	}()

	logger := slog.Default()
	srv := server.NewHTTPServer(cfg.ServerAddr, server.NewService(store, logger), logger)

	errChan := make(chan error, 1)
	go func() {
		common.LogInfo("Sync server listening", common.Fields{"addr": cfg.ServerAddr, "backend": cfg.Backend})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down sync server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// openUserStore builds the configured backend. The closer releases it.
func openUserStore(ctx context.Context, cfg config.App) (server.UserStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendSheets:
		sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return nil, nil, fmt.Errorf("invalid sheets configuration: %w", err)
		}
		table, err := sheets.NewUserTable(ctx, *sheetsCfg, slog.Default())
		if err != nil {
			return nil, nil, err
		}
		return table, nopCloser{}, nil

	case config.BackendSQLite:
		store, err := userstore.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.BackendPostgres:
		store, err := userstore.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	default:
		return server.NewMemoryStore(), nopCloser{}, nil
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
