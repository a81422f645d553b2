package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/protocol"
)

// maxReplyBytes caps how much of a reply body is read.
const maxReplyBytes = 32 << 20

// emptyBlob stands in for a load reply without data.
var emptyBlob = json.RawMessage(`{}`)

// Client posts protocol requests to one endpoint. It never returns Go errors
// and never panics; every outcome is a Reply.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
}

// NewClient creates a client for endpoint. A nil httpClient uses
// http.DefaultClient, so timeouts are the transport's defaults.
func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{httpClient: httpClient, logger: logger, endpoint: endpoint}
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, cred model.Credential) Reply {
	return c.post(ctx, protocol.ActionRegister, cred, nil)
}

// Login checks a credential pair.
func (c *Client) Login(ctx context.Context, cred model.Credential) Reply {
	return c.post(ctx, protocol.ActionLogin, cred, nil)
}

// Save uploads blob as the user's data.
func (c *Client) Save(ctx context.Context, cred model.Credential, blob []byte) Reply {
	return c.post(ctx, protocol.ActionSave, cred, blob)
}

// Load downloads the user's data. On success Data always holds a JSON value:
// the blob, whether the server sent it as a JSON string or inline, or {}
// when the server had nothing.
func (c *Client) Load(ctx context.Context, cred model.Credential) Reply {
	reply := c.post(ctx, protocol.ActionLoad, cred, nil)
	if !reply.Success {
		return reply
	}

	data := bytes.TrimSpace(reply.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		reply.Data = emptyBlob
		return reply
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return localFailure(ErrMalformedReply, MsgMalformed)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			reply.Data = emptyBlob
			return reply
		}
		if !json.Valid([]byte(s)) {
			c.logger.Error("Remote data is not JSON", "bytes", len(s))
			return localFailure(ErrMalformedReply, MsgMalformed)
		}
		data = []byte(s)
	}

	reply.Data = json.RawMessage(data)
	return reply
}

func (c *Client) post(ctx context.Context, action string, cred model.Credential, data []byte) Reply {
	if c.endpoint == "" {
		return localFailure(ErrNotConfigured, MsgNotConfigured)
	}

	form := url.Values{}
	form.Set(protocol.FieldAction, action)
	form.Set(protocol.FieldUsername, cred.Username)
	form.Set(protocol.FieldPassword, cred.Password)
	if data != nil {
		form.Set(protocol.FieldData, string(data))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Error("Failed to build request", "action", action, "error", err)
		return localFailure(ErrNetwork, MsgNetwork)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Network/fetch error", "action", action, "error", err)
		return localFailure(ErrNetwork, MsgNetwork)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		c.logger.Error("Failed to read reply", "action", action, "error", err)
		return localFailure(ErrNetwork, MsgNetwork)
	}

	var reply Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		c.logger.Error("JSON parse error", "action", action, "status", resp.StatusCode, "raw", truncate(string(body), 200))
		return localFailure(ErrMalformedReply, MsgMalformed)
	}
	return reply
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
