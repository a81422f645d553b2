package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/storage"
)

// SessionOptions configures a Session.
type SessionOptions struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	// DefaultURL is used when no endpoint has been stored locally.
	DefaultURL string
}

// Session binds a Client to the locally persisted endpoint and logged-in
// user. It is safe for concurrent use so pushes may run in the background.
type Session struct {
	store      storage.Store
	httpClient *http.Client
	logger     *slog.Logger
	client     *Client
	cred       *model.Credential
	mu         sync.RWMutex
}

// NewSession creates a session over store and restores any persisted state.
func NewSession(ctx context.Context, store storage.Store, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		store:      store,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}

	endpoint := storage.Get(ctx, store, storage.KeyAPIURL, "")
	if endpoint == "" {
		endpoint = NormalizeURL(opts.DefaultURL)
	}
	s.client = NewClient(endpoint, s.httpClient, logger)
	s.Restore(ctx)
	return s
}

// NormalizeURL trims whitespace and trailing slashes.
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// SetAPIURL stores a new endpoint and returns it normalized. URLs that are
// not http(s) are accepted with a warning.
func (s *Session) SetAPIURL(ctx context.Context, raw string) (string, error) {
	endpoint := NormalizeURL(raw)
	if u, err := url.Parse(endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		s.logger.Warn("API URL does not look like an http(s) URL", "url", endpoint)
	}

	if err := storage.Set(ctx, s.store, storage.KeyAPIURL, endpoint); err != nil {
		return "", fmt.Errorf("failed to save API URL: %w", err)
	}

	s.mu.Lock()
	s.client = NewClient(endpoint, s.httpClient, s.logger)
	s.mu.Unlock()
	return endpoint, nil
}

// APIURL returns the configured endpoint, empty when unset.
func (s *Session) APIURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client.Endpoint()
}

// Client returns the client for the current endpoint.
func (s *Session) Client() *Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Active reports whether a user is logged in.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred != nil
}

// User returns the logged-in username, empty for a guest.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.Username
}

func (s *Session) credential() (model.Credential, *Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return model.Credential{}, s.client, false
	}
	return *s.cred, s.client, true
}

// Restore reads the persisted user. A missing or corrupt value leaves the
// session as a guest.
func (s *Session) Restore(ctx context.Context) bool {
	cred := storage.Get[*model.Credential](ctx, s.store, storage.KeyCurrentUser, nil)
	if cred != nil && (cred.Username == "" || cred.Password == "") {
		cred = nil
	}

	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
	return cred != nil
}

// Register creates an account. It does not log in.
func (s *Session) Register(ctx context.Context, cred model.Credential) Reply {
	return s.Client().Register(ctx, cred)
}

// Login checks cred against the remote and, on success, persists it as the
// current user.
func (s *Session) Login(ctx context.Context, cred model.Credential) Reply {
	reply := s.Client().Login(ctx, cred)
	if !reply.Success {
		return reply
	}

	if err := storage.Set(ctx, s.store, storage.KeyCurrentUser, cred); err != nil {
		s.logger.Error("Failed to persist session", "username", cred.Username, "error", err)
	}

	s.mu.Lock()
	c := cred
	s.cred = &c
	s.mu.Unlock()
	return reply
}

// Logout forgets the current user. Local data is kept.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, storage.KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// LoadBlob downloads the current user's blob.
func (s *Session) LoadBlob(ctx context.Context) Reply {
	cred, client, ok := s.credential()
	if !ok {
		return localFailure(ErrNoSession, MsgNoSession)
	}
	return client.Load(ctx, cred)
}

// SaveBlob uploads blob for the current user.
func (s *Session) SaveBlob(ctx context.Context, blob []byte) Reply {
	cred, client, ok := s.credential()
	if !ok {
		return localFailure(ErrNoSession, MsgNoSession)
	}
	return client.Save(ctx, cred, blob)
}
