// Package remote is the client side of the sync protocol: form-encoded POSTs
// carrying credentials, replies normalized to Reply values, a persisted
// session and the field-level merge of a downloaded blob.
package remote

import (
	"encoding/json"
	"errors"

	"github.com/Veraticus/smartspend/internal/protocol"
)

// Reply classes.
var (
	ErrMissingParameters = errors.New("missing parameters")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrAuthentication    = errors.New("authentication failed")
	ErrNetwork           = errors.New("network failure")
	ErrMalformedReply    = errors.New("malformed reply")
	ErrNotConfigured     = errors.New("remote not configured")
	ErrNoSession         = errors.New("not logged in")
	ErrRejected          = errors.New("request rejected")
)

// Messages of replies synthesized on the client.
const (
	MsgMalformed     = "server returned an unexpected (non-JSON) response"
	MsgNetwork       = "network error or blocked request"
	MsgNotConfigured = "remote API URL is not configured"
	MsgNoSession     = "not logged in"
)

// Reply is the normalized outcome of one call. Failures of any kind,
// including transport errors, are Replies with Success false.
type Reply struct {
	kind    error
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Success bool            `json:"success"`
}

func localFailure(kind error, msg string) Reply {
	return Reply{kind: kind, Message: msg}
}

// ReplyError is a failed Reply as an error. Error returns the server's (or
// client's) message; errors.Is matches the reply class.
type ReplyError struct {
	Kind    error
	Message string
}

func (e *ReplyError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *ReplyError) Unwrap() error {
	return e.Kind
}

// Err returns nil for a successful reply and a *ReplyError otherwise.
func (r Reply) Err() error {
	if r.Success {
		return nil
	}
	return &ReplyError{Kind: r.Kind(), Message: r.Message}
}

// Kind classifies a failed reply; it is nil on success.
func (r Reply) Kind() error {
	if r.Success {
		return nil
	}
	if r.kind != nil {
		return r.kind
	}
	switch r.Message {
	case protocol.MsgMissingInfo, protocol.MsgNoParameters:
		return ErrMissingParameters
	case protocol.MsgUsernameExists:
		return ErrDuplicateUsername
	case protocol.MsgInvalidCredentials, protocol.MsgSaveAuthFailed, protocol.MsgLoadAuthFailed:
		return ErrAuthentication
	default:
		return ErrRejected
	}
}
