// Package framing implements the continuation-byte length prefix that
// delimits ciphertext blocks on a session connection.
//
// # Wire format
//
// A length L is written as floor(L/255) bytes of 255 followed by one
// terminating byte L mod 255 (0..254). A frame is the encoded length of the
// ciphertext followed by the ciphertext itself; there is no checksum and no
// other delimiter.
//
//	254 -> [254]
//	255 -> [255 0]
//	510 -> [255 255 0]
//
// # Errors
//
// A stream that ends before the first length byte yields io.EOF, which
// callers treat as the peer closing. A stream that ends anywhere later, or a
// length above MaxFrameLength, yields an error wrapping domain.ErrProtocol.
package framing
