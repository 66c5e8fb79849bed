package pump

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dhchat/internal/crypto"
	"dhchat/internal/domain"
	"dhchat/internal/metrics"
	"dhchat/internal/protocol/framing"
)

// Pump is single-use: Run wipes the key material when it returns.
type Pump struct {
	cipher *crypto.XORCipher
	in     domain.LineSource
	out    domain.MessageSink
	log    *logrus.Entry
}

// New builds a Pump keyed by secret.
func New(secret domain.SharedSecret, in domain.LineSource, out domain.MessageSink, log *logrus.Entry) (*Pump, error) {
	c, err := crypto.NewXORCipher(secret.Slice())
	crypto.WipeSecret(&secret)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pump{cipher: c, in: in, out: out, log: log}, nil
}

// Run pumps messages over conn until the peer disconnects, an I/O error
// occurs, the input source is exhausted, or ctx is cancelled. If conn is an
// io.Closer it is closed before Run returns.
//
// Run returns nil when the peer closed the connection, io.EOF when the input
// source ran dry, and ctx.Err() when ctx was cancelled.
func (p *Pump) Run(ctx context.Context, conn io.ReadWriter) error {
	defer p.cipher.Wipe()

	session, cancel := context.WithCancel(ctx)
	defer cancel()

	// Closing the connection is what unblocks a pending socket read.
	if c, ok := conn.(io.Closer); ok {
		stop := context.AfterFunc(session, func() { _ = c.Close() })
		defer func() {
			stop()
			_ = c.Close()
		}()
	}

	recvErr := make(chan error, 1)
	go func() {
		err := p.receive(conn)
		if session.Err() != nil {
			// Ended because we tore the connection down.
			err = nil
		}
		cancel()
		recvErr <- err
	}()

	sendErr := p.send(session, conn)
	cancel()
	rerr := <-recvErr

	switch {
	case ctx.Err() != nil:
		p.log.Debug("session cancelled")
		return ctx.Err()
	case sendErr != nil && errors.Is(sendErr, io.EOF):
		p.log.Debug("input closed")
		return io.EOF
	case sendErr != nil:
		p.log.WithError(sendErr).Warn("send flow failed")
		return sendErr
	case rerr != nil:
		p.log.WithError(rerr).Warn("receive flow failed")
		return rerr
	}
	p.log.Info("peer disconnected")
	return nil
}

func (p *Pump) receive(conn io.Reader) error {
	br := bufio.NewReader(conn)
	for {
		payload, err := framing.ReadFrame(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if errors.Is(err, domain.ErrProtocol) {
				metrics.FrameErrors.Inc()
			}
			return err
		}
		text := strings.TrimSpace(p.cipher.Decrypt(payload))
		p.out.Deliver(domain.Message{Origin: domain.OriginRemote, Text: text})
		metrics.MessagesReceived.Inc()
		p.log.WithField("bytes", len(payload)).Debug("frame received")
	}
}

func (p *Pump) send(ctx context.Context, conn io.Writer) error {
	for {
		line, err := p.in.ReadLine(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		payload := p.cipher.Encrypt(line)
		if err := framing.WriteFrame(conn, payload); err != nil {
			return errors.Wrap(err, "sending message")
		}
		metrics.MessagesSent.Inc()
		p.log.WithField("bytes", len(payload)).Debug("frame sent")
	}
}
