package keys

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dhchat/internal/console"
	"dhchat/internal/crypto"
	"dhchat/internal/domain"
)

const (
	DefaultModulus   = 2315981
	DefaultGenerator = 772197

	// maxCheckedModulus bounds the trial-division group checks.
	maxCheckedModulus = 1 << 48
)

var (
	// ErrKeyExists is returned by Create when a key file is present and
	// overwriting was not requested.
	ErrKeyExists = errors.New("key file already exists")

	// ErrBadGroup is returned for a modulus below 2.
	ErrBadGroup = errors.New("modulus must be at least 2")
)

// Group is a modulus and generator pair.
type Group struct {
	Modulus   uint64
	Generator uint64
}

// Service loads or creates the server key pair.
type Service struct {
	store    domain.KeyStore
	term     domain.Terminal
	defaults Group
	rand     io.Reader
	log      *logrus.Entry
}

// New returns a key service. Zero fields in defaults fall back to
// DefaultModulus and DefaultGenerator.
func New(store domain.KeyStore, term domain.Terminal, defaults Group, log *logrus.Entry) *Service {
	if defaults.Modulus == 0 {
		defaults.Modulus = DefaultModulus
	}
	if defaults.Generator == 0 {
		defaults.Generator = DefaultGenerator
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{store: store, term: term, defaults: defaults, log: log}
}

// WithRand sets the source private exponents are drawn from. nil restores
// the default entropy source.
func (s *Service) WithRand(r io.Reader) *Service {
	s.rand = r
	return s
}

// LoadOrCreate returns the stored key pair, or interactively creates and
// saves one if none is stored. Declining returns domain.ErrDeclined; a key
// file that cannot be parsed is returned as an error without prompting.
func (s *Service) LoadOrCreate(ctx context.Context) (domain.KeyPair, error) {
	kp, err := s.store.LoadKeyPair()
	if err == nil {
		if !crypto.Consistent(kp) {
			s.log.Warn("stored public value does not match the private exponent")
		}
		return kp, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return domain.KeyPair{}, err
	}

	if err := s.confirm(ctx, "No server key found, make one? (y/n)"); err != nil {
		return domain.KeyPair{}, err
	}
	modulus, err := s.askNumber(ctx,
		fmt.Sprintf("What prime modulus do you want to use? (leave blank for %d)", s.defaults.Modulus),
		s.defaults.Modulus, 2)
	if err != nil {
		return domain.KeyPair{}, err
	}
	generator, err := s.askNumber(ctx,
		fmt.Sprintf("What generator do you want to use? (leave blank for %d)", s.defaults.Generator),
		s.defaults.Generator, 0)
	if err != nil {
		return domain.KeyPair{}, err
	}

	kp, err = s.Generate(Group{Modulus: modulus, Generator: generator})
	if err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.store.SaveKeyPair(kp); err != nil {
		return domain.KeyPair{}, errors.Wrap(err, "saving key pair")
	}
	s.log.WithField("fingerprint", crypto.Fingerprint(kp.Public)).Info("server key created")
	return kp, nil
}

// Create generates and saves a key pair without prompting. An existing key
// is kept unless force is set.
func (s *Service) Create(g Group, force bool) (domain.KeyPair, error) {
	if !force {
		ok, err := s.store.Exists()
		if err != nil {
			return domain.KeyPair{}, err
		}
		if ok {
			return domain.KeyPair{}, ErrKeyExists
		}
	}
	kp, err := s.Generate(g)
	if err != nil {
		return domain.KeyPair{}, err
	}
	if err := s.store.SaveKeyPair(kp); err != nil {
		return domain.KeyPair{}, errors.Wrap(err, "saving key pair")
	}
	return kp, nil
}

// Generate draws a key pair in g, logging a warning when g is not a prime
// modulus with a primitive-root generator.
func (s *Service) Generate(g Group) (domain.KeyPair, error) {
	if g.Modulus < 2 {
		return domain.KeyPair{}, ErrBadGroup
	}
	s.checkGroup(g)
	return crypto.GenerateKeyPair(s.rand, g.Modulus, g.Generator)
}

// Fingerprint returns the fingerprint of the stored public value.
func (s *Service) Fingerprint() (domain.Fingerprint, error) {
	kp, err := s.store.LoadKeyPair()
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(kp.Public), nil
}

func (s *Service) checkGroup(g Group) {
	log := s.log.WithFields(logrus.Fields{"modulus": g.Modulus, "generator": g.Generator})
	if g.Modulus > maxCheckedModulus {
		log.Debug("modulus too large to check")
		return
	}
	if !crypto.IsPrime(g.Modulus) {
		log.Warn("modulus is not prime")
		return
	}
	r := g.Generator % g.Modulus
	if r == 0 || !crypto.IsPrimitiveRoot(r, g.Modulus, crypto.RootExponents(g.Modulus)) {
		log.Warn("generator is not a primitive root of the modulus")
	}
}

func (s *Service) confirm(ctx context.Context, question string) error {
	for {
		ans, err := console.Ask(ctx, s.term, question)
		if err != nil {
			return err
		}
		switch strings.ToLower(ans) {
		case "y", "yes":
			return nil
		case "n", "no":
			return domain.ErrDeclined
		}
		s.term.Printf("Invalid answer.\n")
	}
}

// askNumber reprompts until the answer is blank (def) or a number >= floor.
func (s *Service) askNumber(ctx context.Context, question string, def, floor uint64) (uint64, error) {
	for {
		ans, err := console.Ask(ctx, s.term, question)
		if err != nil {
			return 0, err
		}
		if ans == "" {
			return def, nil
		}
		v, err := strconv.ParseUint(ans, 10, 64)
		if err == nil && v >= floor {
			return v, nil
		}
		s.term.Printf("Invalid number.\n")
	}
}

// Compile-time assertion that Service implements domain.KeyService.
var _ domain.KeyService = (*Service)(nil)
