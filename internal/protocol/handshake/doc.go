// Package handshake runs the key exchange that opens every chat session.
//
// # Flows
//
// Server (accepting side):
//  1. Write its public value, modulus and generator as three
//     newline-terminated decimal lines.
//  2. Read one line holding the client's public value.
//  3. Derive the shared secret from its private exponent.
//
// Client (connecting side):
//  1. Read the three lines (public, modulus, generator).
//  2. Generate an ephemeral key pair in the received group.
//  3. Write its public value as one line and derive the shared secret.
//
// Lines are read one byte at a time so no bytes past the handshake are
// consumed; the first frame may follow the last line immediately.
//
// # Errors
//
// Malformed integer text wraps domain.ErrParse. A stream that ends before a
// line is complete, or an unusable modulus, wraps domain.ErrProtocol. Nothing
// is retried; callers close the connection on any error.
package handshake
