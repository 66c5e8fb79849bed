// Package client runs the connecting side of the chat.
//
// Run asks for an address, connects, performs the handshake and pumps
// messages until the session ends, then asks for an address again. Connect
// and handshake failures are reported and followed by a new prompt. Run
// returns when the local input is exhausted or its context is cancelled.
package client
