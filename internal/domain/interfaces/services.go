package interfaces

import (
	"context"

	domaintypes "dhchat/internal/domain/types"
)

// LineSource yields one line of user input at a time.
//
// ReadLine blocks until a line is available or ctx is done. A line that was
// not consumed because ctx ended stays queued for the next caller.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// MessageSink is the output surface chat messages are delivered to.
type MessageSink interface {
	Deliver(msg domaintypes.Message)
}

// Terminal is the interactive surface used by prompts and sessions.
type Terminal interface {
	LineSource
	MessageSink
	Printf(format string, args ...any)
}

// KeyService yields the server key pair, creating one when needed.
type KeyService interface {
	LoadOrCreate(ctx context.Context) (domaintypes.KeyPair, error)
}
