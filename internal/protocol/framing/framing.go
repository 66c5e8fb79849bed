package framing

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"dhchat/internal/domain"
)

const (
	// continuation marks a length byte that is followed by another.
	continuation = 255

	// MaxFrameLength limits a single frame's ciphertext.
	MaxFrameLength = 1 << 20 // 1 MiB
)

var (
	ErrFrameTooLarge = errors.Wrap(domain.ErrProtocol, "frame length too large")
	ErrTruncated     = errors.Wrap(domain.ErrProtocol, "frame truncated")
)

// EncodeLength returns the length prefix for n. n must not be negative.
func EncodeLength(n int) []byte {
	return AppendLength(make([]byte, 0, n/continuation+1), n)
}

// AppendLength appends the length prefix for n to b.
func AppendLength(b []byte, n int) []byte {
	if n < 0 {
		panic("framing: negative length")
	}
	for n >= continuation {
		b = append(b, continuation)
		n -= continuation
	}
	return append(b, byte(n))
}

// DecodeLength reads a length prefix from r.
func DecodeLength(r io.ByteReader) (int, error) {
	total := 0
	for first := true; ; first = false {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && first {
				return 0, io.EOF
			}
			if err == io.EOF {
				return 0, errors.Wrap(ErrTruncated, io.ErrUnexpectedEOF.Error())
			}
			return 0, errors.Wrap(err, "reading frame length")
		}
		total += int(b)
		if total > MaxFrameLength {
			return 0, errors.Wrapf(ErrFrameTooLarge, "%d+", total)
		}
		if b != continuation {
			return total, nil
		}
	}
}

// WriteFrame writes the length prefix and payload in a single Write.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrameLength {
		return errors.Wrapf(ErrFrameTooLarge, "%d", len(payload))
	}
	buf := AppendLength(make([]byte, 0, len(payload)/continuation+1+len(payload)), len(payload))
	buf = append(buf, payload...)
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "writing frame")
	}
	return nil
}

// ReadFrame reads one frame from r. Readers that are not io.ByteReaders are
// wrapped in a bufio.Reader; callers reading many frames should pass the same
// *bufio.Reader each time so buffered bytes are not lost.
func ReadFrame(r io.Reader) ([]byte, error) {
	br, ok := r.(interface {
		io.Reader
		io.ByteReader
	})
	if !ok {
		br = bufio.NewReader(r)
	}
	n, err := DecodeLength(br)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(br, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrTruncated, "want %d bytes", n)
		}
		return nil, errors.Wrap(err, "reading frame payload")
	}
	return payload, nil
}
