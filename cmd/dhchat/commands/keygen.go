package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"dhchat/internal/crypto"
	"dhchat/internal/services/keys"
)

func keygenCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the server key without prompting",
		Long: "Generate the server key pair in the group given by --modulus and --generator\n" +
			"and write it to --key-file. An existing key is kept unless --force is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := keys.Group{Modulus: appCtx.Config.Modulus, Generator: appCtx.Config.Generator}
			kp, err := appCtx.Keys.Create(g, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key written to %s.\nFingerprint: %s\n", appCtx.Store.Path(), crypto.Fingerprint(kp.Public))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing key file")
	return cmd
}
