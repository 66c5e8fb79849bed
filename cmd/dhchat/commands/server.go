package commands

import (
	"github.com/spf13/cobra"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Accept chats, one peer at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer closeApp()
			return appCtx.RunServer(cmd.Context())
		},
	}
}
