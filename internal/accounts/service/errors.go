package service

import "errors"

// Kind classifies why an operation did not succeed. The transport maps each
// kind to a fixed status code.
type Kind int

const (
	KindServerError Kind = iota
	KindBadInput
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "bad_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "server_error"
	}
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrBadInput     = errors.New("bad_input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server_error")
)

var kindSentinels = map[Kind]error{
	KindBadInput:     ErrBadInput,
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindNotFound:     ErrNotFound,
	KindConflict:     ErrConflict,
	KindServerError:  ErrServer,
}

// Error is the failure half of every AccountService result. Message is safe
// to show to callers; Err, when set, is the internal cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf returns the kind carried by err. Anything that is not an *Error is a
// server error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServerError
}

// Messages returned to callers.
const (
	msgFieldsMandatory  = "All the fields are mandatory"
	msgUserExists       = "User already exists!"
	msgLoginMissing     = "Login details are missing"
	msgUserNotFound     = "User not found"
	msgInvalidPassword  = "Invalid password"
	msgUnauthorized     = "Unauthorized"
	msgForbidden        = "You can only modify your own account"
	msgNothingToUpdate  = "Name or role is required"
	msgOldPasswordWrong = "Old password is incorrect"
	msgPasswordTooLong  = "Password must be at most 72 bytes"
	msgSignupFailed     = "Signup Failed"
	msgLoginFailed      = "Login Failed!"
	msgFetchFailed      = "Failed fetching table items"
	msgUpdateFailed     = "Failed to update user profile"
	msgChangePwdFailed  = "Changing password failed"
	MsgSignupSuccessful = "signup successful"
	MsgLoginSuccessful  = "Login successful"
	MsgProfileUpdated   = "Profile updated successfully!"
	MsgPasswordChanged  = "Password changed successfully"
)
