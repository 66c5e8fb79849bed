package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"dhchat/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public value.
//
// It hashes the 8-byte big-endian encoding with SHA-256 and truncates to
// 10 bytes (20 hex chars).
func Fingerprint(public uint64) domain.Fingerprint {
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], public)
	sum := sha256.Sum256(be[:])
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}
