package client_test

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhchat/internal/console"
	"dhchat/internal/crypto"
	"dhchat/internal/domain"
	"dhchat/internal/metrics"
	"dhchat/internal/protocol/framing"
	"dhchat/internal/protocol/handshake"
	"dhchat/internal/services/client"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	in  *io.PipeWriter
	out *lockedBuffer
	svc *client.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pr, pw := io.Pipe()
	out := &lockedBuffer{}
	term := console.NewFromReader(pr, out)
	t.Cleanup(func() {
		_ = pw.Close()
		_ = term.Close()
	})
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := client.New(term, logrus.NewEntry(logger)).
		WithRand(crypto.NewChaChaReader(crypto.SeedFromUint64(0xB)))
	return &fixture{in: pw, out: out, svc: svc}
}

func (f *fixture) typeLines(s string) {
	go func() { _, _ = io.WriteString(f.in, s) }()
}

func (f *fixture) run(ctx context.Context, addr string) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- f.svc.Run(ctx, addr) }()
	return errCh
}

func (f *fixture) waitFor(t *testing.T, sub string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), sub)
	}, 5*time.Second, 10*time.Millisecond, "waiting for %q", sub)
}

func wait(t *testing.T, errCh <-chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop")
		return nil
	}
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln
}

func TestRunSessionThenPromptAgain(t *testing.T) {
	f := newFixture(t)
	ln := listen(t)
	kp, err := crypto.GenerateKeyPair(crypto.NewChaChaReader(crypto.SeedFromUint64(0xA)), 2315981, 772197)
	require.NoError(t, err)

	received := make(chan string, 1)
	serverErr := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			serverErr <- err
			return
		}
		defer conn.Close()
		res, err := handshake.Server(context.Background(), conn, kp)
		if err != nil {
			serverErr <- err
			return
		}
		c, err := crypto.NewXORCipher(res.Secret.Slice())
		if err != nil {
			serverErr <- err
			return
		}
		if err := framing.WriteFrame(conn, c.Encrypt("  welcome  ")); err != nil {
			serverErr <- err
			return
		}
		payload, err := framing.ReadFrame(bufio.NewReader(conn))
		if err != nil {
			serverErr <- err
			return
		}
		received <- c.Decrypt(payload)
		serverErr <- nil
	}()

	errCh := f.run(context.Background(), ln.Addr().String())

	f.waitFor(t, "welcome\n")
	f.typeLines("hi there\n")

	select {
	case got := <-received:
		assert.Equal(t, "hi there", got)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive the message")
	}
	require.NoError(t, <-serverErr)

	// The server hung up; the client asks for a new address.
	f.waitFor(t, "address to connect to (ip:port)\n")
	require.NoError(t, f.in.Close())
	assert.NoError(t, wait(t, errCh))

	out := f.out.String()
	assert.Contains(t, out, "got the shared key\n")
	assert.Contains(t, out, "server fingerprint: "+string(crypto.Fingerprint(kp.Public))+"\n")
}

func TestRunConnectFailure(t *testing.T) {
	f := newFixture(t)
	ln := listen(t)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	errCh := f.run(context.Background(), "")
	f.typeLines("\n" + addr + "\n")

	f.waitFor(t, "Could not connect to "+addr)
	f.waitFor(t, "address to connect to (ip:port)\n")
	require.NoError(t, f.in.Close())
	assert.NoError(t, wait(t, errCh))
}

func TestRunHandshakeFailure(t *testing.T) {
	f := newFixture(t)
	ln := listen(t)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = io.WriteString(conn, "garbage\n")
		_ = conn.Close()
	}()

	failures := metrics.HandshakeFailures.WithLabelValues(string(domain.RoleClient))
	before := testutil.ToFloat64(failures)

	errCh := f.run(context.Background(), ln.Addr().String())
	f.waitFor(t, "Handshake with "+ln.Addr().String()+" failed")
	assert.Equal(t, before+1, testutil.ToFloat64(failures))

	require.NoError(t, f.in.Close())
	assert.NoError(t, wait(t, errCh))
}

func TestRunCancelledAtPrompt(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := f.run(ctx, "")
	f.waitFor(t, "address to connect to (ip:port)\n")
	cancel()
	assert.NoError(t, wait(t, errCh))
}
