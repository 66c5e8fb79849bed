package app

import (
	"context"
	"strings"

	"dhchat/internal/metrics"
)

// App runs the top-level flows over a Wire.
type App struct {
	*Wire
}

func New(w *Wire) *App {
	return &App{Wire: w}
}

// RunServer loads or creates the server key, binds and serves until ctx is
// cancelled or input is exhausted.
func (a *App) RunServer(ctx context.Context) error {
	if err := a.serveMetrics(ctx); err != nil {
		return err
	}
	kp, err := a.Keys.LoadOrCreate(ctx)
	if err != nil {
		return quiet(ctx, err)
	}
	ln, err := a.Server.Bind(ctx, uint16(a.Config.Port))
	if err != nil {
		return quiet(ctx, err)
	}
	return a.Server.Serve(ctx, ln, kp)
}

// RunClient runs the client reconnect loop.
func (a *App) RunClient(ctx context.Context) error {
	if err := a.serveMetrics(ctx); err != nil {
		return err
	}
	return a.Client.Run(ctx, a.Config.Address)
}

// SelectMode asks for a mode and runs it. Any answer other than c or s
// exits without error.
func (a *App) SelectMode(ctx context.Context) error {
	a.Console.Printf("choose operation mode:\n c  client mode\n s  server mode\n")
	line, err := a.Console.ReadLine(ctx)
	if err != nil {
		return quiet(ctx, err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "c":
		return a.RunClient(ctx)
	case "s":
		return a.RunServer(ctx)
	}
	return nil
}

func (a *App) serveMetrics(ctx context.Context) error {
	return metrics.Serve(ctx, a.Config.MetricsAddr, a.Log.WithField("component", "metrics"))
}
