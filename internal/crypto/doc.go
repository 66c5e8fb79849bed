// Package crypto exposes the primitives used by dhchat sessions.
//
// Contents
//
//   - Finite-cyclic-group arithmetic: modular exponentiation, prime
//     factorisation and primitive-root search (ModExp, PrimeFactors,
//     RootExponents, IsPrimitiveRoot, PrimitiveRoots)
//   - Key pairs and shared-secret derivation (GenerateKeyPair,
//     DeriveSharedSecret)
//   - A ChaCha20 keystream reader used as the private-key source, seedable
//     for reproducible keys (NewChaChaReader, NewEntropyReader)
//   - The repeating-key XOR stream cipher applied to chat text (XORCipher)
//   - Short public-value fingerprints for display (Fingerprint)
//   - Best-effort memory wiping for session keys (Wipe, WipeSecret)
//
// # Notes
//
// The group is small and the cipher is a repeating-key XOR. Both are kept
// for wire compatibility with existing peers and give no real secrecy
// against an active or even a patient passive attacker.
package crypto
