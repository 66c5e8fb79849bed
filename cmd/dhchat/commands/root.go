package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"dhchat/internal/app"
	"dhchat/internal/console"
)

var appCtx *app.App

// Execute runs the CLI with os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRoot().ExecuteContext(ctx)
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "dhchat",
		Short:         "Two-party encrypted chat over TCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(cfg.LogLevel, os.Stderr)
			if err != nil {
				return err
			}
			con, err := console.New(os.Stdin, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			appCtx = app.New(app.NewWire(cfg, con, logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeApp()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer closeApp()
			return appCtx.SelectMode(cmd.Context())
		},
	}

	app.BindFlags(root.PersistentFlags())

	root.AddCommand(serverCmd(), clientCmd(), keygenCmd(), rootsCmd(), fingerprintCmd())
	return root
}

// closeApp releases the console; PersistentPostRunE is skipped when RunE
// fails, so commands that block on input also defer it.
func closeApp() error {
	if appCtx == nil {
		return nil
	}
	err := appCtx.Close()
	appCtx = nil
	return err
}
