package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dhchat/internal/crypto"
)

// rootsCmd lists generator candidates for a modulus.
func rootsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roots [modulus]",
		Short: "List primitive roots usable as generators",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modulus := appCtx.Config.Modulus
			if len(args) == 1 {
				v, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil || v < 2 {
					return errors.Errorf("invalid modulus %q", args[0])
				}
				modulus = v
			}
			if !crypto.IsPrime(modulus) {
				appCtx.Log.WithField("modulus", modulus).Warn("modulus is not prime")
			}

			roots := crypto.PrimitiveRoots(modulus)
			strs := make([]string, len(roots))
			for i, r := range roots {
				strs[i] = strconv.FormatUint(r, 10)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Primitive roots of %d (%d found):\n", modulus, len(roots))
			if len(strs) > 0 {
				fmt.Fprintln(out, strings.Join(strs, " "))
			}
			return nil
		},
	}
}
