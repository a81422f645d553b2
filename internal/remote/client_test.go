package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/protocol"
	"github.com/Veraticus/smartspend/internal/server"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(server.NewHandler(server.NewService(server.NewMemoryStore(), nil), nil))
	t.Cleanup(srv.Close)
	return srv
}

func staticServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Protocol(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newTestServer(t).URL, nil, nil)
	alice := model.Credential{Username: "alice", Password: "pw"}

	tests := []struct {
		call    func() Reply
		wantErr error
		name    string
		message string
		success bool
	}{
		{
			name:    "register",
			call:    func() Reply { return c.Register(ctx, alice) },
			success: true,
			message: protocol.MsgRegistered,
		},
		{
			name:    "register duplicate",
			call:    func() Reply { return c.Register(ctx, alice) },
			message: protocol.MsgUsernameExists,
			wantErr: ErrDuplicateUsername,
		},
		{
			name:    "register missing password",
			call:    func() Reply { return c.Register(ctx, model.Credential{Username: "bob"}) },
			message: protocol.MsgMissingInfo,
			wantErr: ErrMissingParameters,
		},
		{
			name:    "login",
			call:    func() Reply { return c.Login(ctx, alice) },
			success: true,
			message: protocol.MsgLoginSuccess,
		},
		{
			name:    "login wrong password",
			call:    func() Reply { return c.Login(ctx, model.Credential{Username: "alice", Password: "nope"}) },
			message: protocol.MsgInvalidCredentials,
			wantErr: ErrAuthentication,
		},
		{
			name:    "save wrong password",
			call:    func() Reply { return c.Save(ctx, model.Credential{Username: "alice", Password: "x"}, []byte(`{}`)) },
			message: protocol.MsgSaveAuthFailed,
			wantErr: ErrAuthentication,
		},
		{
			name:    "load unknown user",
			call:    func() Reply { return c.Load(ctx, model.Credential{Username: "zed", Password: "x"}) },
			message: protocol.MsgLoadAuthFailed,
			wantErr: ErrAuthentication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := tt.call()
			assert.Equal(t, tt.success, reply.Success)
			assert.Equal(t, tt.message, reply.Message)
			if tt.wantErr == nil {
				assert.NoError(t, reply.Err())
				return
			}
			assert.ErrorIs(t, reply.Err(), tt.wantErr)
			assert.Equal(t, tt.message, reply.Err().Error())
		})
	}
}

func TestClient_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	c := NewClient(newTestServer(t).URL, nil, nil)
	cred := model.Credential{Username: "u", Password: "p"}

	require.True(t, c.Register(ctx, cred).Success)

	reply := c.Load(ctx, cred)
	require.True(t, reply.Success)
	assert.JSONEq(t, `{}`, string(reply.Data), "fresh users start with an empty blob")

	blob := `{"todos":[{"id":"1","text":"x","createdAt":"","completed":false}],"limits":{"2024-05":100}}`
	save := c.Save(ctx, cred, []byte(blob))
	require.True(t, save.Success)
	assert.Equal(t, protocol.MsgSaved, save.Message)

	reply = c.Load(ctx, cred)
	require.True(t, reply.Success)
	assert.JSONEq(t, blob, string(reply.Data))
}

func TestClient_LoadDataShapes(t *testing.T) {
	ctx := context.Background()
	cred := model.Credential{Username: "u", Password: "p"}

	tests := []struct {
		name     string
		body     string
		wantData string
		wantErr  error
	}{
		{name: "string data", body: `{"success":true,"data":"{\"todos\":[]}"}`, wantData: `{"todos":[]}`},
		{name: "object data", body: `{"success":true,"data":{"todos":[]}}`, wantData: `{"todos":[]}`},
		{name: "empty string", body: `{"success":true,"data":""}`, wantData: `{}`},
		{name: "missing data", body: `{"success":true}`, wantData: `{}`},
		{name: "null data", body: `{"success":true,"data":null}`, wantData: `{}`},
		{name: "string that is not JSON", body: `{"success":true,"data":"oops"}`, wantErr: ErrMalformedReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(staticServer(t, http.StatusOK, tt.body).URL, nil, nil)
			reply := c.Load(ctx, cred)
			if tt.wantErr != nil {
				assert.False(t, reply.Success)
				assert.ErrorIs(t, reply.Err(), tt.wantErr)
				assert.Equal(t, MsgMalformed, reply.Message)
				return
			}
			require.True(t, reply.Success)
			assert.JSONEq(t, tt.wantData, string(reply.Data))
		})
	}
}

func TestClient_Failures(t *testing.T) {
	ctx := context.Background()
	cred := model.Credential{Username: "u", Password: "p"}

	t.Run("html body", func(t *testing.T) {
		c := NewClient(staticServer(t, http.StatusOK, "<html>sign in</html>").URL, nil, nil)
		reply := c.Login(ctx, cred)
		assert.False(t, reply.Success)
		assert.Equal(t, MsgMalformed, reply.Message)
		assert.ErrorIs(t, reply.Err(), ErrMalformedReply)
	})

	t.Run("error status with JSON body", func(t *testing.T) {
		c := NewClient(staticServer(t, http.StatusInternalServerError, `{"success":false,"message":"Error: boom"}`).URL, nil, nil)
		reply := c.Login(ctx, cred)
		assert.Equal(t, "Error: boom", reply.Message)
		assert.ErrorIs(t, reply.Err(), ErrRejected)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL
		srv.Close()

		reply := NewClient(endpoint, nil, nil).Save(ctx, cred, []byte(`{}`))
		assert.False(t, reply.Success)
		assert.Equal(t, MsgNetwork, reply.Message)
		assert.ErrorIs(t, reply.Err(), ErrNetwork)
	})

	t.Run("not configured", func(t *testing.T) {
		reply := NewClient("", nil, nil).Register(ctx, cred)
		assert.False(t, reply.Success)
		assert.ErrorIs(t, reply.Err(), ErrNotConfigured)
	})

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		reply := NewClient(newTestServer(t).URL, nil, nil).Login(cctx, cred)
		assert.True(t, errors.Is(reply.Err(), ErrNetwork))
	})
}
