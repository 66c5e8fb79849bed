package keys_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhchat/internal/console"
	"dhchat/internal/crypto"
	"dhchat/internal/domain"
	"dhchat/internal/services/keys"
	"dhchat/internal/store"
)

type fixture struct {
	store *store.KeyFileStore
	out   *bytes.Buffer
	hook  *test.Hook
	svc   *keys.Service
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	ks := store.NewKeyFileStore(filepath.Join(t.TempDir(), "server.key"))
	out := &bytes.Buffer{}
	term := console.NewFromReader(strings.NewReader(input), out)
	t.Cleanup(func() { _ = term.Close() })
	logger, hook := test.NewNullLogger()
	svc := keys.New(ks, term, keys.Group{}, logrus.NewEntry(logger)).
		WithRand(crypto.NewChaChaReader(crypto.SeedFromUint64(7)))
	return &fixture{store: ks, out: out, hook: hook, svc: svc}
}

func (f *fixture) warnings() []string {
	var msgs []string
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func TestLoadExisting(t *testing.T) {
	f := newFixture(t, "")
	kp := domain.KeyPair{Private: 3, Public: 8, Modulus: 11, Generator: 2}
	require.NoError(t, f.store.SaveKeyPair(kp))

	got, err := f.svc.LoadOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kp, got)
	assert.Empty(t, f.out.String(), "no prompts for an existing key")
	assert.Empty(t, f.warnings())
}

func TestLoadInconsistentWarns(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.store.SaveKeyPair(domain.KeyPair{Private: 3, Public: 9, Modulus: 11, Generator: 2}))

	_, err := f.svc.LoadOrCreate(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.warnings(), 1)
}

func TestCreateWithDefaults(t *testing.T) {
	f := newFixture(t, "maybe\nY\n\n\n")

	kp, err := f.svc.LoadOrCreate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(keys.DefaultModulus), kp.Modulus)
	assert.Equal(t, uint64(keys.DefaultGenerator), kp.Generator)
	assert.True(t, crypto.Consistent(kp))
	assert.Empty(t, f.warnings(), "default group is a prime with a primitive root")

	assert.Equal(t,
		"No server key found, make one? (y/n)\n"+
			"Invalid answer.\n"+
			"No server key found, make one? (y/n)\n"+
			"What prime modulus do you want to use? (leave blank for 2315981)\n"+
			"What generator do you want to use? (leave blank for 772197)\n",
		f.out.String())

	saved, err := f.store.LoadKeyPair()
	require.NoError(t, err)
	assert.Equal(t, kp, saved)
}

func TestCreateCustomGroup(t *testing.T) {
	f := newFixture(t, "yes\nabc\n1\n23\n5\n")

	kp, err := f.svc.LoadOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(23), kp.Modulus)
	assert.Equal(t, uint64(5), kp.Generator)
	assert.Equal(t, 2, strings.Count(f.out.String(), "Invalid number.\n"))
	assert.Empty(t, f.warnings())
}

func TestCreateWeakGroupWarns(t *testing.T) {
	f := newFixture(t, "y\n21\n2\n")
	_, err := f.svc.LoadOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"modulus is not prime"}, f.warnings())

	f = newFixture(t, "y\n23\n2\n")
	_, err = f.svc.LoadOrCreate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"generator is not a primitive root of the modulus"}, f.warnings())
}

func TestDecline(t *testing.T) {
	f := newFixture(t, "no\n")

	_, err := f.svc.LoadOrCreate(context.Background())
	assert.ErrorIs(t, err, domain.ErrDeclined)

	ok, err := f.store.Exists()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInputExhausted(t *testing.T) {
	f := newFixture(t, "y\n")
	_, err := f.svc.LoadOrCreate(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestMalformedKeyFile(t *testing.T) {
	f := newFixture(t, "y\n")
	require.NoError(t, os.WriteFile(f.store.Path(), []byte("garbage"), 0o600))

	_, err := f.svc.LoadOrCreate(context.Background())
	assert.ErrorIs(t, err, domain.ErrParse)
	assert.Empty(t, f.out.String())
}

func TestCreateNonInteractive(t *testing.T) {
	f := newFixture(t, "")
	g := keys.Group{Modulus: 1009, Generator: 11}

	first, err := f.svc.Create(g, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(1009), first.Modulus)

	_, err = f.svc.Create(g, false)
	assert.ErrorIs(t, err, keys.ErrKeyExists)

	_, err = f.svc.Create(g, true)
	require.NoError(t, err)

	fp, err := f.svc.Fingerprint()
	require.NoError(t, err)
	saved, err := f.store.LoadKeyPair()
	require.NoError(t, err)
	assert.Equal(t, crypto.Fingerprint(saved.Public), fp)
}

func TestGenerateRejectsTinyModulus(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.svc.Generate(keys.Group{Modulus: 1, Generator: 1})
	assert.ErrorIs(t, err, keys.ErrBadGroup)
}
