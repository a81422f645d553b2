package model

import "time"

// Credential is the username/password pair re-sent on every remote call.
// Passwords are kept and compared in plaintext to stay wire compatible with
// existing remote stores.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserRow is one row of the remote user table.
type UserRow struct {
	LastUpdated time.Time
	Username    string
	Password    string
	Data        string
}
