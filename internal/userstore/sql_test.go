package userstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/protocol"
	"github.com/Veraticus/smartspend/internal/server"
)

var _ server.UserStore = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AppendRowsUpdate(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	assert.Equal(t, SQLite, store.Dialect())

	rows, err := store.Rows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.Append(ctx, model.UserRow{Username: "an", Password: "pw", Data: "{}", LastUpdated: created}))
	require.NoError(t, store.Append(ctx, model.UserRow{Username: "bo", Password: "pw2", Data: "{}", LastUpdated: created}))

	rows, err = store.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "an", rows[0].Username)
	assert.Equal(t, "bo", rows[1].Username)
	assert.True(t, created.Equal(rows[0].LastUpdated))

	updated := created.Add(time.Hour)
	require.NoError(t, store.UpdateData(ctx, 1, `{"todos":[]}`, updated))

	rows, err = store.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, "{}", rows[0].Data)
	assert.Equal(t, `{"todos":[]}`, rows[1].Data)
	assert.True(t, updated.Equal(rows[1].LastUpdated))

	assert.Error(t, store.UpdateData(ctx, 5, "{}", updated))
}

func TestStore_BacksService(t *testing.T) {
	ctx := context.Background()
	svc := server.NewService(openTestStore(t), nil)

	resp := svc.Handle(ctx, server.Request{Action: protocol.ActionRegister, Username: "an", Password: "pw"})
	require.True(t, resp.Success)

	resp = svc.Handle(ctx, server.Request{Action: protocol.ActionSave, Username: "an", Password: "pw", Data: `{"goals":[]}`})
	require.True(t, resp.Success)

	resp = svc.Handle(ctx, server.Request{Action: protocol.ActionLoad, Username: "an", Password: "pw"})
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, `{"goals":[]}`, *resp.Data)
}

func TestOpenPostgres_EmptyDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "")
	assert.Error(t, err)
}
