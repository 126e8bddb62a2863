package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the resource exists but the principal may not read it.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials covers every authentication failure: bad password,
	// unknown email, unknown/expired/consumed refresh token. Deliberately
	// undifferentiated so the transport layer cannot leak which case occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
