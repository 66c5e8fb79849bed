package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"dhchat/internal/domain"
)

// ErrZeroModulus is returned when a key pair is requested for modulus 0.
var ErrZeroModulus = errors.New("crypto: modulus must be non-zero")

// GenerateKeyPair draws a private exponent uniformly from [0, modulus) and
// computes the matching public value. A nil r uses a fresh entropy-seeded
// ChaChaReader.
func GenerateKeyPair(r io.Reader, modulus, generator uint64) (domain.KeyPair, error) {
	if modulus == 0 {
		return domain.KeyPair{}, ErrZeroModulus
	}
	if r == nil {
		er, err := NewEntropyReader()
		if err != nil {
			return domain.KeyPair{}, err
		}
		r = er
	}
	private, err := uniformUint64(r, modulus)
	if err != nil {
		return domain.KeyPair{}, errors.Wrap(err, "drawing private exponent")
	}
	return domain.KeyPair{
		Private:   private,
		Public:    ModExp(generator, private, modulus),
		Modulus:   modulus,
		Generator: generator,
	}, nil
}

// Consistent reports whether kp's public value matches its private exponent.
func Consistent(kp domain.KeyPair) bool {
	if kp.Modulus == 0 {
		return false
	}
	return ModExp(kp.Generator, kp.Private, kp.Modulus) == kp.Public
}

// DeriveSharedSecret computes otherPublic^selfPrivate mod modulus and hashes
// its 8-byte big-endian encoding with SHA-256.
func DeriveSharedSecret(modulus, selfPrivate, otherPublic uint64) domain.SharedSecret {
	var be [8]byte
	binary.BigEndian.PutUint64(be[:], ModExp(otherPublic, selfPrivate, modulus))
	defer Wipe(be[:])
	return domain.SharedSecret(sha256.Sum256(be[:]))
}
