package framing_test

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dhchat/internal/domain"
	"dhchat/internal/protocol/framing"
)

func TestEncodeLength_Boundaries(t *testing.T) {
	assert.Equal(t, []byte{0}, framing.EncodeLength(0))
	assert.Equal(t, []byte{1}, framing.EncodeLength(1))
	assert.Equal(t, []byte{254}, framing.EncodeLength(254))
	assert.Equal(t, []byte{255, 0}, framing.EncodeLength(255))
	assert.Equal(t, []byte{255, 1}, framing.EncodeLength(256))
	assert.Equal(t, []byte{255, 254}, framing.EncodeLength(509))
	assert.Equal(t, []byte{255, 255, 0}, framing.EncodeLength(510))
}

func TestLength_RoundTrip(t *testing.T) {
	for n := 0; n <= 2000; n++ {
		enc := framing.EncodeLength(n)
		for _, b := range enc[:len(enc)-1] {
			require.Equal(t, byte(255), b)
		}
		require.NotEqual(t, byte(255), enc[len(enc)-1])

		r := bytes.NewReader(enc)
		got, err := framing.DecodeLength(r)
		require.NoError(t, err, "n=%d", n)
		require.Equal(t, n, got)
		require.Zero(t, r.Len(), "decoder over-read for n=%d", n)
	}
}

func TestAppendLength_Negative(t *testing.T) {
	assert.Panics(t, func() { framing.EncodeLength(-1) })
}

func TestDecodeLength_CleanEOF(t *testing.T) {
	_, err := framing.DecodeLength(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err)
}

func TestDecodeLength_TruncatedContinuation(t *testing.T) {
	_, err := framing.DecodeLength(bytes.NewReader([]byte{255, 255}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProtocol)
}

func TestDecodeLength_TooLarge(t *testing.T) {
	_, err := framing.DecodeLength(bytes.NewReader(bytes.Repeat([]byte{255}, framing.MaxFrameLength/255+2)))
	assert.ErrorIs(t, err, domain.ErrProtocol)
}

func TestFrame_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payloads := [][]byte{
		[]byte("ok"),
		{},
		bytes.Repeat([]byte{0xAB}, 255),
		bytes.Repeat([]byte{0x01}, 1000),
	}
	for _, p := range payloads {
		require.NoError(t, framing.WriteFrame(&buf, p))
	}

	br := bufio.NewReader(&buf)
	for _, want := range payloads {
		got, err := framing.ReadFrame(br)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := framing.ReadFrame(br)
	assert.Equal(t, io.EOF, err)
}

func TestWriteFrame_Bytes(t *testing.T) {
	var buf bytes.Buffer
	payload := bytes.Repeat([]byte{'z'}, 300)
	require.NoError(t, framing.WriteFrame(&buf, payload))

	assert.Equal(t, append([]byte{255, 45}, payload...), buf.Bytes())
}

func TestReadFrame_ShortPayload(t *testing.T) {
	_, err := framing.ReadFrame(bytes.NewReader([]byte{5, 'a', 'b'}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProtocol)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteFrame_WriteError(t *testing.T) {
	err := framing.WriteFrame(failingWriter{}, []byte("x"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
