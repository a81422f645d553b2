// Package tracker holds the state controller: the canonical snapshot, the
// transient view state and every mutation. Each mutation validates its
// input, updates the snapshot, writes the affected partition and, when a
// user is logged in, pushes the whole snapshot in the background.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/remote"
	"github.com/Veraticus/smartspend/internal/storage"
)

// Syncer is the remote side of the controller. *remote.Session implements it.
type Syncer interface {
	Active() bool
	LoadBlob(ctx context.Context) remote.Reply
	SaveBlob(ctx context.Context, blob []byte) remote.Reply
}

// PushResult describes one finished background push.
type PushResult struct {
	At        time.Time
	Partition string
	Reply     remote.Reply
}

// Options configures a Controller.
type Options struct {
	Logger   *slog.Logger
	Now      func() time.Time
	Location *time.Location
	// OnPush, when set, is called from the push goroutine after each push.
	OnPush func(PushResult)
}

// LoadResult reports what Load did.
type LoadResult struct {
	Remote   remote.Reply
	Merged   []string
	Synced   bool
	Migrated int
}

// Controller owns the snapshot. It is not safe for concurrent use; callers
// drive it from a single goroutine. Background pushes only see serialized
// copies.
type Controller struct {
	store  storage.Store
	syncer Syncer
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
	onPush func(PushResult)
	period time.Time
	filter derive.Filter
	view   derive.ViewMode
	theme  Theme
	snap   model.Snapshot
	pushes sync.WaitGroup
}

// New creates a controller over store. syncer may be nil for a local-only
// controller. The snapshot starts empty until Load is called.
func New(store storage.Store, syncer Syncer, opts Options) *Controller {
	c := &Controller{
		store:  store,
		syncer: syncer,
		logger: opts.Logger,
		now:    opts.Now,
		loc:    opts.Location,
		onPush: opts.OnPush,
		view:   derive.ViewDaily,
		theme:  ThemeLight,
		snap:   model.EmptySnapshot(),
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	c.period = firstOfMonth(c.now().In(c.loc))
	return c
}

// Load reads every partition, merges the remote blob over it when a user is
// logged in, then migrates legacy investments. Migrated records are written
// back and pushed. A failed remote load is logged and leaves local data in
// place.
func (c *Controller) Load(ctx context.Context) (LoadResult, error) {
	var res LoadResult

	c.snap = storage.LoadSnapshot(ctx, c.store)
	c.theme = storage.Get(ctx, c.store, storage.KeyTheme, ThemeLight)

	if c.authenticated() {
		res.Remote = c.syncer.LoadBlob(ctx)
		if res.Remote.Success {
			merged, err := remote.MergeBlob(&c.snap, res.Remote.Data)
			if err != nil {
				c.logger.Warn("Some remote fields could not be merged", "error", err)
			}
			res.Merged = merged
			res.Synced = true
			c.logger.Info("Loaded remote data", "fields", merged)
		} else {
			c.logger.Warn("Could not load remote data, using local", "error", res.Remote.Err())
		}
	}

	res.Migrated = c.snap.MigrateInvestments()
	if res.Migrated > 0 {
		c.logger.Info("Migrated legacy investments", "count", res.Migrated)
		if err := c.commit(ctx, storage.KeyInvestments); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() model.Snapshot {
	return c.snap.Clone()
}

// Dashboard derives the dashboard for the current period and view.
func (c *Controller) Dashboard() derive.Dashboard {
	return derive.BuildDashboard(c.snap, c.period, c.view, c.now().In(c.loc))
}

// History applies the current filter to every transaction.
func (c *Controller) History() derive.History {
	return derive.FilterHistory(c.snap.Transactions, c.filter)
}

// Period returns the first day of the month being viewed.
func (c *Controller) Period() time.Time {
	return c.period
}

// SetPeriod jumps to the month containing t.
func (c *Controller) SetPeriod(t time.Time) {
	c.period = firstOfMonth(t.In(c.loc))
}

// ShiftPeriod moves the viewed month by delta months.
func (c *Controller) ShiftPeriod(delta int) {
	c.period = c.period.AddDate(0, delta, 0)
}

// View returns the bucket granularity.
func (c *Controller) View() derive.ViewMode {
	return c.view
}

// SetView changes the bucket granularity.
func (c *Controller) SetView(v derive.ViewMode) {
	c.view = v
}

// Filter returns the history filter.
func (c *Controller) Filter() derive.Filter {
	return c.filter
}

// SetFilter replaces the history filter.
func (c *Controller) SetFilter(f derive.Filter) {
	c.filter = f
}

// ObservePushes replaces the push observer. Call it before the first
// mutation; pushes read it from their own goroutines.
func (c *Controller) ObservePushes(fn func(PushResult)) {
	c.onPush = fn
}

// Replace swaps the whole snapshot, for example when restoring a
// checkpoint. Every partition is written and the result is pushed once so
// the next Load does not merge the old remote state back over it.
func (c *Controller) Replace(ctx context.Context, snap model.Snapshot) error {
	next := snap.Clone()
	if n := next.MigrateInvestments(); n > 0 {
		c.logger.Info("Migrated legacy investments", "count", n)
	}
	if err := storage.SaveSnapshot(ctx, c.store, next); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	c.snap = next
	c.push("all")
	return nil
}

// Wait blocks until every push launched so far has finished.
func (c *Controller) Wait() {
	c.pushes.Wait()
}

func (c *Controller) authenticated() bool {
	return c.syncer != nil && c.syncer.Active()
}

// commit writes one partition and then pushes the snapshot.
func (c *Controller) commit(ctx context.Context, key string) error {
	if err := c.persist(ctx, key); err != nil {
		return err
	}
	c.push(key)
	return nil
}

func (c *Controller) persist(ctx context.Context, key string) error {
	var value any
	switch key {
	case storage.KeyTransactions:
		value = c.snap.Transactions
	case storage.KeyCategories:
		value = c.snap.Categories
	case storage.KeyInstallments:
		value = c.snap.Installments
	case storage.KeyGoals:
		value = c.snap.Goals
	case storage.KeyTodos:
		value = c.snap.Todos
	case storage.KeyInvestments:
		value = c.snap.Investments
	case storage.KeyMonthlyLimits:
		value = c.snap.MonthlyLimits
	default:
		return fmt.Errorf("unknown partition %q", key)
	}
	if err := storage.Set(ctx, c.store, key, value); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// push serializes the snapshot now and uploads it in the background.
func (c *Controller) push(partition string) {
	if !c.authenticated() {
		return
	}

	blob, err := json.Marshal(c.snap)
	if err != nil {
		c.logger.Error("Failed to encode snapshot for sync", "error", err)
		return
	}

	c.pushes.Add(1)
	go func() {
		defer c.pushes.Done()
		reply := c.syncer.SaveBlob(context.Background(), blob)
		if reply.Success {
			c.logger.Info("Synced to remote", "partition", partition, "bytes", len(blob))
		} else {
			c.logger.Error("Remote sync failed", "partition", partition, "error", reply.Err())
		}
		if c.onPush != nil {
			c.onPush(PushResult{At: c.now(), Partition: partition, Reply: reply})
		}
	}()
}

func (c *Controller) today() time.Time {
	return c.now().In(c.loc)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
