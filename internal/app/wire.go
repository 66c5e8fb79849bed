package app

import (
	"github.com/sirupsen/logrus"

	"dhchat/internal/console"
	"dhchat/internal/services/client"
	"dhchat/internal/services/keys"
	"dhchat/internal/services/server"
	"dhchat/internal/store"
)

// Wire bundles the console, store and services for the CLI.
type Wire struct {
	Config  Config
	Log     *logrus.Logger
	Console *console.Console
	Store   *store.KeyFileStore
	Keys    *keys.Service
	Server  *server.Service
	Client  *client.Service
}

// NewWire constructs the dependency graph from cfg around an existing
// console and logger.
func NewWire(cfg Config, con *console.Console, log *logrus.Logger) *Wire {
	entry := func(component string) *logrus.Entry {
		return log.WithField("component", component)
	}

	keyStore := store.NewKeyFileStore(cfg.KeyFile)
	keySvc := keys.New(keyStore, con, keys.Group{Modulus: cfg.Modulus, Generator: cfg.Generator}, entry("keys"))

	return &Wire{
		Config:  cfg,
		Log:     log,
		Console: con,
		Store:   keyStore,
		Keys:    keySvc,
		Server:  server.New(con, cfg.Host, entry("server")),
		Client:  client.New(con, entry("client")),
	}
}

// Close releases the console.
func (w *Wire) Close() error {
	return w.Console.Close()
}
