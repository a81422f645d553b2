// Package storage provides the local persistence layer: named partitions
// holding JSON values.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/smartspend/internal/model"
)

// Partition keys.
const (
	KeyTransactions  = "transactions"
	KeyCategories    = "categories"
	KeyInstallments  = "installments"
	KeyGoals         = "goals"
	KeyTodos         = "todos"
	KeyInvestments   = "investments"
	KeyMonthlyLimits = "monthly_limits"
	KeyTheme         = "theme"

	// Session keys are local only and never synced.
	KeyCurrentUser = "current_user"
	KeyAPIURL      = "api_url"
)

// Store is a key/value store of raw JSON values.
type Store interface {
	GetRaw(ctx context.Context, key string) ([]byte, bool, error)
	SetRaw(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Get decodes the value stored under key. A missing key, a stored null, a
// read failure or a value that does not decode as T all yield def. Read
// failures and corrupt values are logged.
func Get[T any](ctx context.Context, s Store, key string, def T) T {
	raw, found, err := s.GetRaw(ctx, key)
	if err != nil {
		slog.Warn("Failed to read partition, using default", "key", key, "error", err)
		return def
	}
	if !found || string(bytes.TrimSpace(raw)) == "null" {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("Stored value is corrupt, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Set encodes value as JSON and stores it under key.
func Set(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode partition %s: %w", key, err)
	}
	return s.SetRaw(ctx, key, raw)
}

// LoadSnapshot reads every synced partition, substituting defaults for
// missing or corrupt ones.
func LoadSnapshot(ctx context.Context, s Store) model.Snapshot {
	def := model.EmptySnapshot()
	return model.Snapshot{
		Transactions:  Get(ctx, s, KeyTransactions, def.Transactions),
		Categories:    Get(ctx, s, KeyCategories, def.Categories),
		Installments:  Get(ctx, s, KeyInstallments, def.Installments),
		Goals:         Get(ctx, s, KeyGoals, def.Goals),
		Todos:         Get(ctx, s, KeyTodos, def.Todos),
		Investments:   Get(ctx, s, KeyInvestments, def.Investments),
		MonthlyLimits: Get(ctx, s, KeyMonthlyLimits, def.MonthlyLimits),
	}
}

// SaveSnapshot writes every synced partition.
func SaveSnapshot(ctx context.Context, s Store, snap model.Snapshot) error {
	parts := []struct {
		key   string
		value any
	}{
		{KeyTransactions, snap.Transactions},
		{KeyCategories, snap.Categories},
		{KeyInstallments, snap.Installments},
		{KeyGoals, snap.Goals},
		{KeyTodos, snap.Todos},
		{KeyInvestments, snap.Investments},
		{KeyMonthlyLimits, snap.MonthlyLimits},
	}
	for _, p := range parts {
		if err := Set(ctx, s, p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}
