// Package server implements the remote user store: register, login, save
// and load over a table holding one row per user.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/smartspend/internal/model"
	"github.com/Veraticus/smartspend/internal/protocol"
)

// emptyBlob is the data of a freshly registered user.
const emptyBlob = "{}"

// UserStore is the table of user rows. Row indexes are positions in the
// slice returned by Rows.
type UserStore interface {
	Rows(ctx context.Context) ([]model.UserRow, error)
	Append(ctx context.Context, row model.UserRow) error
	UpdateData(ctx context.Context, index int, data string, at time.Time) error
}

// Request is one decoded call.
type Request struct {
	Action   string
	Username string
	Password string
	Data     string
}

// Response is the JSON reply. Data is only set by a successful load.
type Response struct {
	Data    *string `json:"data,omitempty"`
	Message string  `json:"message,omitempty"`
	Success bool    `json:"success"`
}

func fail(msg string) Response {
	return Response{Message: msg}
}

func ok(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Service answers requests against a UserStore. Mutations are serialized.
type Service struct {
	store  UserStore
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewService creates a service over store.
func NewService(store UserStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Handle dispatches req. Backend failures become "Error: <detail>" replies;
// Handle itself never fails.
func (s *Service) Handle(ctx context.Context, req Request) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		resp Response
		err  error
	)
	switch req.Action {
	case protocol.ActionRegister:
		resp, err = s.register(ctx, req)
	case protocol.ActionLogin:
		resp, err = s.login(ctx, req)
	case protocol.ActionSave:
		resp, err = s.save(ctx, req)
	case protocol.ActionLoad:
		resp, err = s.load(ctx, req)
	default:
		return fail(protocol.MsgInvalidAction)
	}

	if err != nil {
		s.logger.Error("user store request failed", "action", req.Action, "error", err)
		return fail("Error: " + err.Error())
	}
	return resp
}

var errNoUser = errors.New("no matching user")

// find scans for the row matching both username and password.
func (s *Service) find(ctx context.Context, username, password string) (int, model.UserRow, error) {
	rows, err := s.store.Rows(ctx)
	if err != nil {
		return -1, model.UserRow{}, fmt.Errorf("failed to read users: %w", err)
	}
	for i, row := range rows {
		if row.Username == username && row.Password == password {
			return i, row, nil
		}
	}
	return -1, model.UserRow{}, errNoUser
}

func (s *Service) register(ctx context.Context, req Request) (Response, error) {
	if req.Username == "" || req.Password == "" {
		return fail(protocol.MsgMissingInfo), nil
	}

	rows, err := s.store.Rows(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read users: %w", err)
	}
	for _, row := range rows {
		if row.Username == req.Username {
			return fail(protocol.MsgUsernameExists), nil
		}
	}

	row := model.UserRow{
		Username:    req.Username,
		Password:    req.Password,
		Data:        emptyBlob,
		LastUpdated: s.now(),
	}
	if err := s.store.Append(ctx, row); err != nil {
		return Response{}, fmt.Errorf("failed to append user: %w", err)
	}

	s.logger.Info("registered user", "username", req.Username)
	return ok(protocol.MsgRegistered), nil
}

func (s *Service) login(ctx context.Context, req Request) (Response, error) {
	if req.Username == "" || req.Password == "" {
		return fail(protocol.MsgMissingInfo), nil
	}
	_, _, err := s.find(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, errNoUser):
		return fail(protocol.MsgInvalidCredentials), nil
	case err != nil:
		return Response{}, err
	}
	return ok(protocol.MsgLoginSuccess), nil
}

func (s *Service) save(ctx context.Context, req Request) (Response, error) {
	idx, _, err := s.find(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, errNoUser):
		return fail(protocol.MsgSaveAuthFailed), nil
	case err != nil:
		return Response{}, err
	}

	if err := s.store.UpdateData(ctx, idx, req.Data, s.now()); err != nil {
		return Response{}, fmt.Errorf("failed to update user data: %w", err)
	}

	s.logger.Debug("saved user data", "username", req.Username, "bytes", len(req.Data))
	return ok(protocol.MsgSaved), nil
}

func (s *Service) load(ctx context.Context, req Request) (Response, error) {
	_, row, err := s.find(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, errNoUser):
		return fail(protocol.MsgLoadAuthFailed), nil
	case err != nil:
		return Response{}, err
	}

	data := row.Data
	return Response{Success: true, Data: &data}, nil
}
