package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
)

// maxAutoCheckpoints is how many automatic checkpoints are kept.
const maxAutoCheckpoints = 5

// CheckpointManager keeps point-in-time copies of the local database next
// to it, in a checkpoints directory.
type CheckpointManager struct {
	store *SQLiteStorage
	dir   string
	now   func() time.Time
}

// CheckpointInfo describes one checkpoint. It is stored as JSON beside the
// database copy.
type CheckpointInfo struct {
	CreatedAt     time.Time      `json:"created_at"`
	Counts        map[string]int `json:"counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// Common errors.
var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrCheckpointExists   = errors.New("checkpoint already exists")
	ErrInMemoryDatabase   = errors.New("in-memory databases cannot be checkpointed")
)

// NewCheckpointManager creates a manager for store's database file.
func NewCheckpointManager(store *SQLiteStorage) (*CheckpointManager, error) {
	if store.Path() == ":memory:" {
		return nil, ErrInMemoryDatabase
	}

	dir := filepath.Join(filepath.Dir(store.Path()), "checkpoints")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &CheckpointManager{store: store, dir: dir, now: time.Now}, nil
}

func validateCheckpointID(id string) error {
	if err := validateString(id, "checkpoint id"); err != nil {
		return err
	}
	if strings.ContainsAny(id, `/\'";`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid checkpoint id %q: cannot contain path separators or quotes", id)
	}
	return nil
}

func (cm *CheckpointManager) dbPath(id string) string {
	return filepath.Join(cm.dir, id+".db")
}

func (cm *CheckpointManager) metaPath(id string) string {
	return filepath.Join(cm.dir, id+".meta.json")
}

// Create copies the database under tag. An empty tag is named after the
// current time.
func (cm *CheckpointManager) Create(ctx context.Context, tag, description string) (*CheckpointInfo, error) {
	return cm.create(ctx, tag, description, false)
}

func (cm *CheckpointManager) create(ctx context.Context, tag, description string, auto bool) (*CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if tag == "" {
		tag = "checkpoint-" + cm.now().Format("2006-01-02-150405")
	}
	if err := validateCheckpointID(tag); err != nil {
		return nil, err
	}

	path := cm.dbPath(tag)
	if _, err := os.Stat(path); err == nil {
		return nil, ErrCheckpointExists
	}

	version, err := cm.store.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	// VACUUM INTO writes a consistent copy without stopping writers. The id
	// was checked for quotes above.
	if _, err := cm.store.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", path)); err != nil {
		return nil, fmt.Errorf("failed to copy database: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat checkpoint: %w", err)
	}

	info := CheckpointInfo{
		ID:            tag,
		CreatedAt:     cm.now(),
		Description:   description,
		FileSize:      stat.Size(),
		Counts:        countSnapshot(LoadSnapshot(ctx, cm.store)),
		SchemaVersion: version,
		IsAuto:        auto,
	}
	if err := cm.saveInfo(info); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			slog.Error("Failed to remove checkpoint after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	slog.Debug("Created checkpoint", "id", tag, "auto", auto, "bytes", info.FileSize)
	return &info, nil
}

func countSnapshot(s model.Snapshot) map[string]int {
	return map[string]int{
		KeyTransactions:  len(s.Transactions),
		KeyCategories:    len(s.Categories),
		KeyInstallments:  len(s.Installments),
		KeyGoals:         len(s.Goals),
		KeyTodos:         len(s.Todos),
		KeyInvestments:   len(s.Investments),
		KeyMonthlyLimits: len(s.MonthlyLimits),
	}
}

// List returns every checkpoint, newest first. Unreadable metadata is
// skipped.
func (cm *CheckpointManager) List(_ context.Context) ([]CheckpointInfo, error) {
	entries, err := os.ReadDir(cm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	checkpoints := make([]CheckpointInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		info, err := cm.loadInfo(filepath.Join(cm.dir, entry.Name()))
		if err != nil {
			slog.Debug("Skipping unreadable checkpoint metadata", "file", entry.Name(), "error", err)
			continue
		}
		checkpoints = append(checkpoints, *info)
	}

	slices.SortFunc(checkpoints, func(a, b CheckpointInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return checkpoints, nil
}

// Get returns the metadata of checkpoint id.
func (cm *CheckpointManager) Get(_ context.Context, id string) (*CheckpointInfo, error) {
	if err := validateCheckpointID(id); err != nil {
		return nil, err
	}
	info, err := cm.loadInfo(cm.metaPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint metadata: %w", err)
	}
	return info, nil
}

// Read opens checkpoint id and returns the data it holds. Session keys in
// the copy are ignored.
func (cm *CheckpointManager) Read(ctx context.Context, id string) (model.Snapshot, error) {
	if _, err := cm.Get(ctx, id); err != nil {
		return model.Snapshot{}, err
	}
	if _, err := os.Stat(cm.dbPath(id)); err != nil {
		return model.Snapshot{}, ErrCheckpointNotFound
	}

	copyStore, err := NewSQLiteStorage(cm.dbPath(id))
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() {
		if err := copyStore.Close(); err != nil {
			slog.Error("Failed to close checkpoint", "id", id, "error", err)
		}
	}()

	var result string
	if err := copyStore.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to check checkpoint %s: %w", id, err)
	}
	if result != "ok" {
		return model.Snapshot{}, fmt.Errorf("checkpoint %s failed integrity check: %s", id, result)
	}

	return LoadSnapshot(ctx, copyStore), nil
}

// Delete removes checkpoint id.
func (cm *CheckpointManager) Delete(_ context.Context, id string) error {
	if err := validateCheckpointID(id); err != nil {
		return err
	}

	if err := os.Remove(cm.dbPath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrCheckpointNotFound
		}
		return fmt.Errorf("failed to remove checkpoint file: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(cm.dbPath(id) + suffix)
	}
	if err := os.Remove(cm.metaPath(id)); err != nil {
		slog.Debug("Failed to remove checkpoint metadata", "id", id, "error", err)
	}
	return nil
}

// AutoCheckpoint takes a checkpoint before a destructive operation and
// prunes automatic checkpoints beyond the newest few.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, operation string) (*CheckpointInfo, error) {
	tag := fmt.Sprintf("auto-%s-%s", operation, cm.now().Format("2006-01-02-150405.000"))
	info, err := cm.create(ctx, tag, "Automatic checkpoint before "+operation, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create auto-checkpoint: %w", err)
	}

	if err := cm.pruneAuto(ctx); err != nil {
		slog.Warn("Failed to clean up old auto-checkpoints", "error", err)
	}
	return info, nil
}

func (cm *CheckpointManager) pruneAuto(ctx context.Context) error {
	checkpoints, err := cm.List(ctx)
	if err != nil {
		return err
	}

	kept := 0
	for _, cp := range checkpoints {
		if !cp.IsAuto {
			continue
		}
		kept++
		if kept > maxAutoCheckpoints {
			if err := cm.Delete(ctx, cp.ID); err != nil {
				slog.Debug("Failed to delete old auto-checkpoint", "id", cp.ID, "error", err)
			}
		}
	}
	return nil
}

func (cm *CheckpointManager) saveInfo(info CheckpointInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	path := cm.metaPath(info.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (cm *CheckpointManager) loadInfo(path string) (*CheckpointInfo, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, err
	}

	var info CheckpointInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
