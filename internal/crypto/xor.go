package crypto

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrEmptyKey is returned when a cipher is built from an empty key.
var ErrEmptyKey = errors.New("crypto: cipher key is empty")

// XORCipher is the repeating-key stream cipher applied to each message.
// The keystream restarts at key[0] for every message.
type XORCipher struct {
	key []byte
}

// NewXORCipher copies key into a new cipher.
func NewXORCipher(key []byte) (*XORCipher, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	return &XORCipher{key: append([]byte(nil), key...)}, nil
}

// Encrypt XORs byte i of plaintext with key[i mod len(key)].
func (c *XORCipher) Encrypt(plaintext string) []byte {
	out := make([]byte, len(plaintext))
	for i := 0; i < len(plaintext); i++ {
		out[i] = plaintext[i] ^ c.key[i%len(c.key)]
	}
	return out
}

// Decrypt reverses Encrypt. Output that is not valid UTF-8 is read one
// character per byte (Latin-1), matching peers that send raw bytes.
func (c *XORCipher) Decrypt(ciphertext []byte) string {
	plain := make([]byte, len(ciphertext))
	for i, b := range ciphertext {
		plain[i] = b ^ c.key[i%len(c.key)]
	}
	if utf8.Valid(plain) {
		return string(plain)
	}
	runes := make([]rune, len(plain))
	for i, b := range plain {
		runes[i] = rune(b)
	}
	return string(runes)
}

// Wipe zeroes the cipher's copy of the key. The cipher is unusable afterwards.
func (c *XORCipher) Wipe() {
	Wipe(c.key)
	c.key = nil
}
