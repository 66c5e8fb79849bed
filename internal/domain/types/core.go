package types

// Role is the side of the handshake a peer plays.
type Role string

const (
	RoleServer Role = "server"
	RoleClient Role = "client"
)

// String returns the string form of the role.
func (r Role) String() string { return string(r) }

// Fingerprint is a short identifier for public values presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
