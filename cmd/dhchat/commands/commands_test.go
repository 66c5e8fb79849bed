package commands_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhchat/cmd/dhchat/commands"
	"dhchat/internal/crypto"
	"dhchat/internal/services/keys"
	"dhchat/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestKeygenAndFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.key")

	out, err := run(t, "keygen", "--key-file", path, "--modulus", "1009", "--generator", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "Key written to "+path)

	kp, err := store.NewKeyFileStore(path).LoadKeyPair()
	require.NoError(t, err)
	assert.Equal(t, uint64(1009), kp.Modulus)
	assert.Equal(t, uint64(11), kp.Generator)
	assert.True(t, crypto.Consistent(kp))

	_, err = run(t, "keygen", "--key-file", path)
	assert.ErrorIs(t, err, keys.ErrKeyExists)

	_, err = run(t, "keygen", "--key-file", path, "--force")
	require.NoError(t, err)
	kp, err = store.NewKeyFileStore(path).LoadKeyPair()
	require.NoError(t, err)
	assert.Equal(t, uint64(keys.DefaultModulus), kp.Modulus)

	out, err = run(t, "fingerprint", "--key-file", path)
	require.NoError(t, err)
	assert.Equal(t, "Fingerprint: "+string(crypto.Fingerprint(kp.Public))+"\n", out)
}

func TestFingerprintMissingKey(t *testing.T) {
	_, err := run(t, "fingerprint", "--key-file", filepath.Join(t.TempDir(), "absent.key"))
	assert.Error(t, err)
}

func TestRoots(t *testing.T) {
	out, err := run(t, "roots", "23")
	require.NoError(t, err)
	assert.Equal(t, "Primitive roots of 23 (4 found):\n7 10 11 14\n", out)

	out, err = run(t, "roots")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Primitive roots of 2315981 (81 found):", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "772001 772002 772004 772006 772008 "))

	_, err = run(t, "roots", "1")
	assert.Error(t, err)
	_, err = run(t, "roots", "abc")
	assert.Error(t, err)
}
