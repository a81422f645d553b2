// Package protocol names the pieces of the sync wire format shared by the
// client and the server: form fields, actions and reply messages. Clients
// match replies on the message strings, so they never change.
package protocol

// Form fields of a request.
const (
	FieldAction   = "action"
	FieldUsername = "username"
	FieldPassword = "password"
	FieldData     = "data"
)

// Actions.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionSave     = "save"
	ActionLoad     = "load"
)

// Reply messages.
const (
	MsgRegistered         = "Registered successfully"
	MsgUsernameExists     = "Username exists"
	MsgMissingInfo        = "Missing info"
	MsgLoginSuccess       = "Login success"
	MsgInvalidCredentials = "Invalid credentials"
	MsgSaved              = "Saved"
	MsgSaveAuthFailed     = "Auth failed during save"
	MsgLoadAuthFailed     = "Auth failed during load"
	MsgInvalidAction      = "Invalid action"
	MsgNoParameters       = "No parameters"
)
