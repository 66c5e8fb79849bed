package types

// Origin tells whether a message was typed here or received from the peer.
type Origin uint8

const (
	OriginLocal Origin = iota
	OriginRemote
)

// String returns the string form of the origin.
func (o Origin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "local"
}

// Message is a single line of chat text.
type Message struct {
	Origin Origin `json:"origin"`
	Text   string `json:"text"`
}
