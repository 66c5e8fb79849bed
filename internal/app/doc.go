// Package app wires application dependencies for the CLI.
//
// LoadConfig layers defaults, an optional config file, DHCHAT_* environment
// variables and command-line flags into a Config. NewWire builds the console,
// key store and services from it, and App runs the server, client and
// mode-select flows on top of the wire.
package app
