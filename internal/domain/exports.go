package domain

import (
	interfaces "dhchat/internal/domain/interfaces"
	types "dhchat/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	KeyPair      = types.KeyPair
	SharedSecret = types.SharedSecret
	Message      = types.Message
	Origin       = types.Origin
	Role         = types.Role
	Fingerprint  = types.Fingerprint
)

const (
	SharedSecretSize = types.SharedSecretSize

	OriginLocal  = types.OriginLocal
	OriginRemote = types.OriginRemote

	RoleServer = types.RoleServer
	RoleClient = types.RoleClient
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	LineSource  = interfaces.LineSource
	MessageSink = interfaces.MessageSink
	Terminal    = interfaces.Terminal
	KeyStore    = interfaces.KeyStore
	KeyService  = interfaces.KeyService
)
