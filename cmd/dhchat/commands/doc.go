// Package commands defines the dhchat CLI and wires dependencies for subcommands.
//
// Commands
//
//   - (none)       Ask for client or server mode, then run it
//   - server       Load or create the server key and accept chats
//   - client       Connect to a server, reconnecting after each session
//   - keygen       Create the server key without prompting
//   - roots        List primitive roots of a modulus
//   - fingerprint  Print the server key fingerprint
//
// # Implementation
//
// The root command loads configuration (flags, DHCHAT_* environment, optional
// config file) and builds the console, key store and services before any
// subcommand runs. SIGINT and SIGTERM cancel the command context, which ends
// the active session and loop.
package commands
