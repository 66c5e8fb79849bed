package crypto

import (
	"runtime"

	"dhchat/internal/domain"
)

// Wipe zeroes the provided buffer. This is best-effort and aims to
// reduce the chance of the compiler eliding the write.
//
//go:noinline
func Wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(&b)
}

// WipeSecret zeroes a shared secret in place.
func WipeSecret(s *domain.SharedSecret) {
	if s == nil {
		return
	}
	Wipe(s[:])
}
