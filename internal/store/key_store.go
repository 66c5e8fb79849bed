package store

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"dhchat/internal/domain"
)

// DefaultKeyFile is the key file name used when none is configured.
const DefaultKeyFile = "server.key"

// KeyFileStore persists a single key pair at a fixed path.
type KeyFileStore struct {
	path string
	mu   sync.Mutex
}

// NewKeyFileStore returns a KeyFileStore for path.
func NewKeyFileStore(path string) *KeyFileStore {
	if path == "" {
		path = DefaultKeyFile
	}
	return &KeyFileStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *KeyFileStore) Path() string { return s.path }

// Exists reports whether the key file is present.
func (s *KeyFileStore) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", s.path)
	}
	return true, nil
}

// LoadKeyPair reads the key pair. A missing file yields an error matching
// os.ErrNotExist; malformed content wraps domain.ErrParse.
func (s *KeyFileStore) LoadKeyPair() (domain.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path)
	if err != nil {
		return domain.KeyPair{}, errors.Wrapf(err, "reading %s", s.path)
	}
	if b == nil {
		return domain.KeyPair{}, errors.Wrapf(os.ErrNotExist, "key file %s", s.path)
	}
	kp, err := DecodeKeyPair(b)
	if err != nil {
		return domain.KeyPair{}, errors.Wrapf(err, "key file %s", s.path)
	}
	return kp, nil
}

// SaveKeyPair writes kp, replacing any previous key file. The file is only
// readable by its owner.
func (s *KeyFileStore) SaveKeyPair(kp domain.KeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeFile(s.path, EncodeKeyPair(kp), 0o600)
}

// EncodeKeyPair renders kp in key-file form.
func EncodeKeyPair(kp domain.KeyPair) []byte {
	var b []byte
	for _, v := range []uint64{kp.Private, kp.Public, kp.Modulus, kp.Generator} {
		b = strconv.AppendUint(b, v, 10)
		b = append(b, '\n')
	}
	return b
}

// DecodeKeyPair parses key-file content. Surrounding whitespace on each line
// is ignored, as is anything after the fourth line.
func DecodeKeyPair(b []byte) (domain.KeyPair, error) {
	lines := strings.Split(string(b), "\n")
	fields := [...]string{"private", "public", "modulus", "generator"}
	var vals [len(fields)]uint64
	for i, name := range fields {
		if i >= len(lines) {
			return domain.KeyPair{}, errors.Wrapf(domain.ErrParse, "missing %s line", name)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(lines[i]), 10, 64)
		if err != nil {
			return domain.KeyPair{}, errors.Wrapf(domain.ErrParse, "%s: %v", name, err)
		}
		vals[i] = v
	}
	return domain.KeyPair{
		Private:   vals[0],
		Public:    vals[1],
		Modulus:   vals[2],
		Generator: vals[3],
	}, nil
}

// Compile-time assertion that KeyFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyFileStore)(nil)
