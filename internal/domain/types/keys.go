package types

import "fmt"

// SharedSecretSize is the length of a derived session key.
const SharedSecretSize = 32

// KeyPair is one side's key material for a finite-cyclic-group exchange.
//
// Public always equals Generator^Private mod Modulus.
type KeyPair struct {
	Private   uint64 `json:"private"`
	Public    uint64 `json:"public"`
	Modulus   uint64 `json:"modulus"`
	Generator uint64 `json:"generator"`
}

// String omits the private exponent.
func (k KeyPair) String() string {
	return fmt.Sprintf("public=%d modulus=%d generator=%d", k.Public, k.Modulus, k.Generator)
}

// SharedSecret is the symmetric session key both peers derive.
type SharedSecret [SharedSecretSize]byte

// Slice returns the secret as a []byte.
func (s *SharedSecret) Slice() []byte { return s[:] }
