// Package store provides file-based persistence for the server key pair.
//
// KeyFileStore keeps one key pair as four decimal lines: private, public,
// modulus, generator. Writes go through a temp file and an atomic rename.
// All methods are concurrency-safe via internal locking.
package store
