package handshake

import (
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"dhchat/internal/crypto"
	"dhchat/internal/domain"
)

// maxLineLength bounds a single handshake line; a uint64 needs 20 digits.
const maxLineLength = 64

// Result is what a completed handshake yields.
type Result struct {
	Secret     domain.SharedSecret
	Local      domain.KeyPair
	PeerPublic uint64
}

// PeerFingerprint returns a short fingerprint of the peer's public value.
func (r Result) PeerFingerprint() domain.Fingerprint {
	return crypto.Fingerprint(r.PeerPublic)
}

// Server performs the handshake as the accepting side using kp.
func Server(ctx context.Context, rw io.ReadWriter, kp domain.KeyPair) (Result, error) {
	defer interruptOnDone(ctx, rw)()

	if err := writeLines(rw, kp.Public, kp.Modulus, kp.Generator); err != nil {
		return Result{}, wrapCtx(ctx, err)
	}
	peer, err := readUint(rw, "peer public value")
	if err != nil {
		return Result{}, wrapCtx(ctx, err)
	}
	return Result{
		Secret:     crypto.DeriveSharedSecret(kp.Modulus, kp.Private, peer),
		Local:      kp,
		PeerPublic: peer,
	}, nil
}

// Client performs the handshake as the connecting side. The ephemeral
// private exponent is drawn from rand; nil selects a fresh entropy source.
func Client(ctx context.Context, rw io.ReadWriter, rand io.Reader) (Result, error) {
	defer interruptOnDone(ctx, rw)()

	peer, err := readUint(rw, "server public value")
	if err != nil {
		return Result{}, wrapCtx(ctx, err)
	}
	modulus, err := readUint(rw, "modulus")
	if err != nil {
		return Result{}, wrapCtx(ctx, err)
	}
	generator, err := readUint(rw, "generator")
	if err != nil {
		return Result{}, wrapCtx(ctx, err)
	}
	if modulus < 2 {
		return Result{}, errors.Wrapf(domain.ErrProtocol, "unusable modulus %d", modulus)
	}

	kp, err := crypto.GenerateKeyPair(rand, modulus, generator)
	if err != nil {
		return Result{}, errors.Wrap(err, "generating ephemeral key pair")
	}
	if err := writeLines(rw, kp.Public); err != nil {
		return Result{}, wrapCtx(ctx, err)
	}
	return Result{
		Secret:     crypto.DeriveSharedSecret(modulus, kp.Private, peer),
		Local:      kp,
		PeerPublic: peer,
	}, nil
}

func writeLines(w io.Writer, values ...uint64) error {
	var buf []byte
	for _, v := range values {
		buf = strconv.AppendUint(buf, v, 10)
		buf = append(buf, '\n')
	}
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "writing handshake")
	}
	return nil
}

func readUint(r io.Reader, field string) (uint64, error) {
	var (
		line []byte
		b    [1]byte
	)
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, errors.Wrapf(domain.ErrProtocol, "%s: stream ended", field)
			}
			return 0, errors.Wrapf(err, "reading %s", field)
		}
		if b[0] == '\n' {
			break
		}
		if len(line) >= maxLineLength {
			return 0, errors.Wrapf(domain.ErrParse, "%s: line too long", field)
		}
		line = append(line, b[0])
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(line)), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(domain.ErrParse, "%s: %v", field, err)
	}
	return v, nil
}

// interruptOnDone unblocks pending I/O on a net.Conn once ctx ends.
func interruptOnDone(ctx context.Context, rw io.ReadWriter) func() {
	conn, ok := rw.(net.Conn)
	if !ok {
		return func() {}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	return func() { stop() }
}

func wrapCtx(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(ctxErr, err.Error())
	}
	return err
}
