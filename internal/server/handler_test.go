package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/smartspend/internal/protocol"
)

func postForm(t *testing.T, h http.Handler, form url.Values) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestHandler_Protocol(t *testing.T) {
	h := NewHandler(NewService(NewMemoryStore(), nil), nil)

	rec, resp := postForm(t, h, url.Values{"action": {"register"}, "username": {"an"}, "password": {"pw"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, resp.Success)

	_, resp = postForm(t, h, url.Values{"action": {"save"}, "username": {"an"}, "password": {"pw"}, "data": {`{"todos":[]}`}})
	assert.True(t, resp.Success)

	// Load also works over GET with query parameters.
	req := httptest.NewRequest(http.MethodGet, "/?action=load&username=an&password=pw", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["success"])
	assert.Equal(t, `{"todos":[]}`, raw["data"], "data travels as a JSON string")

	_, resp = postForm(t, h, url.Values{"action": {"login"}, "username": {"an"}, "password": {"bad"}})
	assert.False(t, resp.Success)
	assert.Equal(t, protocol.MsgInvalidCredentials, resp.Message)
}

func TestHandler_NoParameters(t *testing.T) {
	h := NewHandler(NewService(NewMemoryStore(), nil), nil)
	_, resp := postForm(t, h, url.Values{})
	assert.False(t, resp.Success)
	assert.Equal(t, protocol.MsgNoParameters, resp.Message)
}

func TestHandler_Preflight(t *testing.T) {
	h := NewHandler(NewService(NewMemoryStore(), nil), nil)
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}
