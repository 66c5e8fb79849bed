// Package keys manages the server's long-lived key pair.
//
// It loads the pair from a domain.KeyStore and, when none exists, walks the
// operator through creating one: confirmation, modulus and generator
// prompts, generation and saving. Groups that fail the primality or
// primitive-root checks are accepted with a warning.
package keys
