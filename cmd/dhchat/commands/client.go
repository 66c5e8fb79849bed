package commands

import (
	"github.com/spf13/cobra"
)

func clientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "client",
		Short: "Connect to a server and chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer closeApp()
			return appCtx.RunClient(cmd.Context())
		},
	}
}
