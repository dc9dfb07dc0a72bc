package login

import "errors"

var (
	// ErrNotFound indicates no matching log entry exists.
	ErrNotFound = errors.New("login record not found")
	// ErrNoDatabase indicates no working login database could be selected.
	ErrNoDatabase = errors.New("no working login database found")
	// ErrInvalidData indicates malformed bytes in a login database.
	ErrInvalidData = errors.New("invalid login database data")
	// ErrUnknownUser indicates the lookup key is absent from the account directory.
	ErrUnknownUser = errors.New("no such user")
)
