package client

import (
	"context"
	"io"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dhchat/internal/console"
	"dhchat/internal/crypto"
	"dhchat/internal/domain"
	"dhchat/internal/metrics"
	"dhchat/internal/protocol/handshake"
	"dhchat/internal/protocol/pump"
)

// Service is the client reconnect loop.
type Service struct {
	term   domain.Terminal
	dialer net.Dialer
	rand   io.Reader
	log    *logrus.Entry
}

// New returns a client that talks to the operator through term.
func New(term domain.Terminal, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{term: term, log: log.WithField("role", domain.RoleClient)}
}

// WithRand sets the source ephemeral private exponents are drawn from.
func (s *Service) WithRand(r io.Reader) *Service {
	s.rand = r
	return s
}

// Run loops over connect, handshake and pump. A non-empty addr is used for
// the first attempt instead of prompting. It returns nil when the input is
// exhausted or ctx is cancelled.
func (s *Service) Run(ctx context.Context, addr string) error {
	for {
		if addr == "" {
			a, err := console.Ask(ctx, s.term, "address to connect to (ip:port)")
			if err != nil {
				return quiet(ctx, err)
			}
			addr = a
			if addr == "" {
				continue
			}
		}

		err := s.connect(ctx, addr)
		addr = ""
		if ctx.Err() != nil || errors.Is(err, io.EOF) {
			return quiet(ctx, err)
		}
	}
}

func (s *Service) connect(ctx context.Context, addr string) error {
	log := s.log.WithField("remote", addr)

	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.WithError(err).Warn("connect failed")
		s.term.Printf("Could not connect to %s: %v\n", addr, err)
		return nil
	}

	res, err := handshake.Client(ctx, conn, s.rand)
	if err != nil {
		_ = conn.Close()
		metrics.HandshakeFailures.WithLabelValues(string(domain.RoleClient)).Inc()
		log.WithError(err).Warn("handshake failed")
		s.term.Printf("Handshake with %s failed: %v\n", addr, err)
		return nil
	}
	metrics.Sessions.WithLabelValues(string(domain.RoleClient)).Inc()
	s.term.Printf("got the shared key\n")
	s.term.Printf("server fingerprint: %s\n", res.PeerFingerprint())
	log.Info("session started")

	p, err := pump.New(res.Secret, s.term, s.term, log)
	crypto.WipeSecret(&res.Secret)
	if err != nil {
		_ = conn.Close()
		return err
	}
	err = p.Run(ctx, conn)
	log.Info("session ended")
	if err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		s.term.Printf("Connection lost: %v\n", err)
	}
	return err
}

// quiet maps the normal ways out of the loop to a nil error.
func quiet(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
