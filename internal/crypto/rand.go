package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

// SeedSize is the length of a ChaChaReader seed.
const SeedSize = chacha20.KeySize

// ChaChaReader is an io.Reader over a ChaCha20 keystream.
type ChaChaReader struct {
	mu     sync.Mutex
	stream *chacha20.Cipher
}

// NewChaChaReader returns a deterministic keystream reader for seed.
func NewChaChaReader(seed [SeedSize]byte) *ChaChaReader {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Key and nonce sizes are fixed above.
		panic(err)
	}
	return &ChaChaReader{stream: c}
}

// NewEntropyReader returns a ChaChaReader seeded from the OS entropy source.
func NewEntropyReader() (*ChaChaReader, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return nil, errors.Wrap(err, "seeding keystream")
	}
	defer Wipe(seed[:])
	return NewChaChaReader(seed), nil
}

// SeedFromUint64 expands v into a reader seed, for reproducible key pairs.
func SeedFromUint64(v uint64) [SeedSize]byte {
	var seed [SeedSize]byte
	binary.LittleEndian.PutUint64(seed[:], v)
	return seed
}

func (r *ChaChaReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(p)
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}

// uniformUint64 draws a value uniformly from [0, n) by rejection sampling.
func uniformUint64(r io.Reader, n uint64) (uint64, error) {
	if n == 0 {
		return 0, errors.New("empty range")
	}
	// 2^64 mod n; values below it would bias the remainder.
	threshold := -n % n
	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(err, "reading random bytes")
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v >= threshold {
			return v % n, nil
		}
	}
}
