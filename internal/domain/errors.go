package domain

import "github.com/pkg/errors"

var (
	// ErrProtocol marks a handshake line missing or out of order, or a
	// malformed frame length.
	ErrProtocol = errors.New("protocol error")

	// ErrParse marks malformed integer text on the wire or in the key file.
	ErrParse = errors.New("parse error")

	// ErrDeclined is returned when the user refuses to create a server key.
	ErrDeclined = errors.New("key generation declined")
)
