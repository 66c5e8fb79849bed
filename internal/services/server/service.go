package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dhchat/internal/console"
	"dhchat/internal/crypto"
	"dhchat/internal/domain"
	"dhchat/internal/metrics"
	"dhchat/internal/protocol/handshake"
	"dhchat/internal/protocol/pump"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 25565
)

// Service is the server accept loop.
type Service struct {
	term domain.Terminal
	host string
	log  *logrus.Entry
}

// New returns a server bound to host once Bind is called. An empty host
// listens on all interfaces.
func New(term domain.Terminal, host string, log *logrus.Entry) *Service {
	if host == "" {
		host = DefaultHost
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{term: term, host: host, log: log.WithField("role", domain.RoleServer)}
}

// Bind listens on port. A port of 0 asks the operator; a failed bind is
// reported and the operator is asked again.
func (s *Service) Bind(ctx context.Context, port uint16) (net.Listener, error) {
	var lc net.ListenConfig
	ask := port == 0
	for {
		if ask {
			p, err := s.askPort(ctx)
			if err != nil {
				return nil, err
			}
			port = p
		}
		ask = true

		addr := net.JoinHostPort(s.host, strconv.Itoa(int(port)))
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err == nil {
			s.log.WithField("addr", ln.Addr().String()).Info("listening")
			return ln, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.WithError(err).WithField("addr", addr).Warn("bind failed")
		s.term.Printf("Could not bind to port %d: %v\n", port, err)
	}
}

func (s *Service) askPort(ctx context.Context) (uint16, error) {
	for {
		ans, err := console.Ask(ctx, s.term, fmt.Sprintf("port to listen on (leave blank for %d)", DefaultPort))
		if err != nil {
			return 0, err
		}
		if ans == "" {
			return DefaultPort, nil
		}
		v, err := strconv.ParseUint(ans, 10, 16)
		if err == nil {
			// 0 lets the system pick.
			return uint16(v), nil
		}
		s.term.Printf("Invalid port.\n")
	}
}

// Serve accepts connections on ln one at a time until ctx is cancelled or
// the local input is exhausted. ln is closed when Serve returns. An accept
// error other than cancellation is returned.
func (s *Service) Serve(ctx context.Context, ln net.Listener, kp domain.KeyPair) error {
	defer ln.Close()
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "accept")
		}

		err = s.handle(ctx, conn, kp)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, io.EOF):
			s.log.Info("input closed, no longer accepting")
			return nil
		}
	}
}

func (s *Service) handle(ctx context.Context, conn net.Conn, kp domain.KeyPair) error {
	log := s.log.WithField("remote", conn.RemoteAddr().String())
	log.Info("connection accepted")

	res, err := handshake.Server(ctx, conn, kp)
	if err != nil {
		_ = conn.Close()
		metrics.HandshakeFailures.WithLabelValues(string(domain.RoleServer)).Inc()
		log.WithError(err).Warn("handshake failed")
		return nil
	}
	metrics.Sessions.WithLabelValues(string(domain.RoleServer)).Inc()
	s.term.Printf("shared key established.\n")
	log.WithField("peer", res.PeerFingerprint()).Info("session started")

	p, err := pump.New(res.Secret, s.term, s.term, log)
	crypto.WipeSecret(&res.Secret)
	if err != nil {
		_ = conn.Close()
		return err
	}
	err = p.Run(ctx, conn)
	log.Info("session ended")
	return err
}
