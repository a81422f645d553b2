package tracker

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/protocol"
	"github.com/Veraticus/smartspend/internal/remote"
	"github.com/Veraticus/smartspend/internal/server"
	"github.com/Veraticus/smartspend/internal/storage"
	"github.com/Veraticus/smartspend/internal/testutil"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type fakeSyncer struct {
	loadReply remote.Reply
	saveReply remote.Reply
	saved     [][]byte
	mu        sync.Mutex
	active    bool
}

func (f *fakeSyncer) Active() bool { return f.active }

func (f *fakeSyncer) LoadBlob(context.Context) remote.Reply { return f.loadReply }

func (f *fakeSyncer) SaveBlob(_ context.Context, blob []byte) remote.Reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, blob)
	return f.saveReply
}

func (f *fakeSyncer) pushes() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved
}

func newController(t *testing.T, snap *model.Snapshot, syncer Syncer) (*Controller, *testutil.TestStore) {
	t.Helper()
	var store *testutil.TestStore
	if snap != nil {
		store = testutil.SetupTestStoreWith(t, *snap)
	} else {
		store = testutil.SetupTestStore(t)
	}
	c := New(store, syncer, Options{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	})
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	return c, store
}

func TestLoad_GuestDefaults(t *testing.T) {
	c, _ := newController(t, nil, nil)

	snap := c.Snapshot()
	assert.Len(t, snap.Categories, 7)
	assert.Empty(t, snap.Transactions)
	assert.Equal(t, ThemeLight, c.Theme())
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.Period())
	assert.Equal(t, derive.ViewDaily, c.View())
}

func TestLoad_RemoteFieldMerge(t *testing.T) {
	local := testutil.NewSnapshotBuilder().
		WithoutCategories().
		WithCategory("A", "Alpha", 0).
		Build()
	syncer := &fakeSyncer{
		active:    true,
		loadReply: remote.Reply{Success: true, Data: json.RawMessage(`{"transactions":[{"id":"T1","date":"2024-03-02","amount":9,"categoryId":"A"}]}`)},
	}

	store := testutil.SetupTestStoreWith(t, local)
	c := New(store, syncer, Options{Now: func() time.Time { return fixedNow }, Location: time.UTC})
	res, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Synced)
	assert.Equal(t, []string{"transactions"}, res.Merged)
	snap := c.Snapshot()
	require.Len(t, snap.Categories, 1)
	assert.Equal(t, "A", snap.Categories[0].ID)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, "T1", snap.Transactions[0].ID)

	assert.Empty(t, store.Snapshot().Transactions, "merged data is not written back by Load")
	assert.Empty(t, syncer.pushes())
}

func TestLoad_RemoteFailureKeepsLocal(t *testing.T) {
	local := testutil.NewSnapshotBuilder().WithTransaction("2024-03-01", "c1", 5).Build()
	syncer := &fakeSyncer{active: true, loadReply: remote.Reply{Message: protocol.MsgLoadAuthFailed}}

	store := testutil.SetupTestStoreWith(t, local)
	c := New(store, syncer, Options{Now: func() time.Time { return fixedNow }, Location: time.UTC})
	res, err := c.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Synced)
	assert.ErrorIs(t, res.Remote.Err(), remote.ErrAuthentication)
	assert.Len(t, c.Snapshot().Transactions, 1)
}

func TestLoad_MigratesLegacyInvestments(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetRaw(ctx, storage.KeyInvestments, []byte(`[{"id":"v1","name":"Gold","capital":100,"profit":20}]`)))

	syncer := &fakeSyncer{active: true, loadReply: remote.Reply{Success: true, Data: json.RawMessage(`{}`)}, saveReply: remote.Reply{Success: true}}
	c := New(store, syncer, Options{Now: func() time.Time { return fixedNow }, Location: time.UTC})
	res, err := c.Load(ctx)
	require.NoError(t, err)
	c.Wait()

	assert.Equal(t, 1, res.Migrated)
	inv := c.Snapshot().Investments[0]
	assert.InDelta(t, 100, inv.Invested, 0.001)
	assert.InDelta(t, 120, inv.Revenue, 0.001)
	assert.Nil(t, inv.Capital)

	assert.NotContains(t, string(store.MustRaw(storage.KeyInvestments)), "capital")
	assert.Len(t, syncer.pushes(), 1, "migration is pushed")

	// A second load finds nothing left to migrate.
	res, err = c.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Migrated)
}

func TestCommit_PersistsAndPushes(t *testing.T) {
	ctx := context.Background()
	var (
		mu      sync.Mutex
		results []PushResult
	)
	syncer := &fakeSyncer{active: true, loadReply: remote.Reply{Success: true, Data: json.RawMessage(`{}`)}, saveReply: remote.Reply{Success: true}}
	store := testutil.SetupTestStore(t)
	c := New(store, syncer, Options{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
		OnPush: func(r PushResult) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		},
	})
	_, err := c.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, c.SetMonthlyLimit(ctx, "2024-03", 3100))
	c.Wait()

	assert.JSONEq(t, `{"2024-03":3100}`, string(store.MustRaw(storage.KeyMonthlyLimits)))

	pushes := syncer.pushes()
	require.Len(t, pushes, 1)
	var blob map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(pushes[0], &blob))
	assert.JSONEq(t, `{"2024-03":3100}`, string(blob["limits"]), "limits travel under the remote key")
	assert.Contains(t, blob, "transactions")
	assert.NotContains(t, blob, "theme")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	assert.Equal(t, storage.KeyMonthlyLimits, results[0].Partition)
	assert.True(t, results[0].Reply.Success)
}

func TestCommit_GuestDoesNotPush(t *testing.T) {
	ctx := context.Background()
	syncer := &fakeSyncer{}
	c, store := newController(t, nil, syncer)

	_, err := c.AddTodo(ctx, "buy milk")
	require.NoError(t, err)
	c.Wait()

	assert.Empty(t, syncer.pushes())
	assert.Contains(t, string(store.MustRaw(storage.KeyTodos)), "buy milk")
}

func TestCommit_FailedPushIsNotAnError(t *testing.T) {
	ctx := context.Background()
	syncer := &fakeSyncer{active: true, loadReply: remote.Reply{Success: true, Data: json.RawMessage(`{}`)}, saveReply: remote.Reply{Message: remote.MsgNetwork}}
	c, store := newController(t, nil, syncer)

	_, err := c.AddTodo(ctx, "still saved locally")
	require.NoError(t, err)
	c.Wait()

	assert.Len(t, syncer.pushes(), 1)
	assert.Contains(t, string(store.MustRaw(storage.KeyTodos)), "still saved locally")
}

func TestPeriodAndView(t *testing.T) {
	c, _ := newController(t, nil, nil)

	c.ShiftPeriod(-3)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), c.Period())
	c.ShiftPeriod(2)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), c.Period())

	c.SetPeriod(time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), c.Period())

	c.SetView(derive.ViewMonthly)
	d := c.Dashboard()
	assert.Equal(t, derive.ViewMonthly, d.View)
	assert.Len(t, d.Buckets, 6)
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	syncer := &fakeSyncer{active: true, loadReply: remote.Reply{Success: true, Data: json.RawMessage(`{}`)}}
	c, store := newController(t, nil, syncer)

	require.NoError(t, c.SetTheme(ctx, ThemeDark))
	assert.ErrorIs(t, c.SetTheme(ctx, "neon"), ErrValidation)
	c.Wait()

	assert.Equal(t, ThemeDark, c.Theme())
	assert.JSONEq(t, `"dark"`, string(store.MustRaw(storage.KeyTheme)))
	assert.Empty(t, syncer.pushes(), "theme is never synced")

	reloaded := New(store, nil, Options{})
	_, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, reloaded.Theme())
}

func TestEndToEnd_TwoDevices(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(server.NewHandler(server.NewService(server.NewMemoryStore(), nil), nil))
	t.Cleanup(srv.Close)
	alice := model.Credential{Username: "alice", Password: "pw1"}

	newDevice := func() (*Controller, *remote.Session) {
		store := testutil.SetupTestStore(t)
		session := remote.NewSession(ctx, store, remote.SessionOptions{DefaultURL: srv.URL})
		c := New(store, session, Options{Now: func() time.Time { return fixedNow }, Location: time.UTC})
		return c, session
	}

	laptop, laptopSession := newDevice()
	require.True(t, laptopSession.Register(ctx, alice).Success)
	assert.ErrorIs(t, laptopSession.Register(ctx, model.Credential{Username: "alice", Password: "pw2"}).Err(), remote.ErrDuplicateUsername)
	assert.ErrorIs(t, laptopSession.Login(ctx, model.Credential{Username: "alice", Password: "wrong"}).Err(), remote.ErrAuthentication)
	require.True(t, laptopSession.Login(ctx, alice).Success)

	_, err := laptop.Load(ctx)
	require.NoError(t, err)
	_, err = laptop.AddTransaction(ctx, TransactionInput{Amount: 42, CategoryID: "c1", Date: "2024-03-10", Note: "lunch"})
	require.NoError(t, err)
	laptop.Wait()

	phone, phoneSession := newDevice()
	require.True(t, phoneSession.Login(ctx, alice).Success)
	res, err := phone.Load(ctx)
	require.NoError(t, err)

	assert.True(t, res.Synced)
	txns := phone.Snapshot().Transactions
	require.Len(t, txns, 1)
	assert.Equal(t, "lunch", txns[0].Note)
	assert.Len(t, phone.Snapshot().Categories, 7)
}

func TestReplace_WritesEveryPartitionAndPushesOnce(t *testing.T) {
	ctx := context.Background()
	syncer := &fakeSyncer{active: true, loadReply: remote.Reply{Success: true, Data: json.RawMessage(`{}`)}, saveReply: remote.Reply{Success: true}}
	initial := testutil.NewSnapshotBuilder().WithTransaction("2024-03-01", "c1", 5).Build()
	c, store := newController(t, &initial, syncer)

	restored := testutil.NewSnapshotBuilder().
		WithoutCategories().
		WithCategory("x", "Rent", 0).
		WithTransaction("2024-02-01", "x", 700).
		WithTransaction("2024-02-02", "x", 30).
		WithLimit("2024-02", 25).
		WithTodo("pay rent").
		Build()

	require.NoError(t, c.Replace(ctx, restored))
	c.Wait()

	snap := c.Snapshot()
	assert.Len(t, snap.Transactions, 2)
	assert.Len(t, snap.Categories, 1)
	stored := store.Snapshot()
	assert.Len(t, stored.Transactions, 2)
	assert.Len(t, stored.Todos, 1)
	assert.InDelta(t, 25, stored.MonthlyLimits["2024-02"], 0.001)
	assert.Len(t, syncer.pushes(), 1)

	var pushed model.Snapshot
	require.NoError(t, json.Unmarshal(syncer.pushes()[0], &pushed))
	assert.Len(t, pushed.Transactions, 2)

	// The caller's value is not aliased.
	restored.Transactions[0].Amount = 1
	assert.InDelta(t, 700, c.Snapshot().Transactions[0].Amount, 0.001)
}
