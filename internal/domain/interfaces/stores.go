package interfaces

import domaintypes "dhchat/internal/domain/types"

// KeyStore persists the server's long-term key pair.
type KeyStore interface {
	LoadKeyPair() (domaintypes.KeyPair, error)
	SaveKeyPair(kp domaintypes.KeyPair) error
	Exists() (bool, error)
}
