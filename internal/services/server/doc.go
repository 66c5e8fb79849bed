// Package server runs the accepting side of the chat.
//
// Bind picks a port, prompting for one when none is configured and
// reprompting on invalid input or bind failure. Serve then accepts one
// connection at a time: handshake, pump until the session ends, accept the
// next. Sessions are never concurrent. A failed accept is fatal.
package server
