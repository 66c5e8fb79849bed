package main

import (
	"errors"
	"fmt"
	"os"

	"dhchat/cmd/dhchat/commands"
	"dhchat/internal/domain"
)

func main() {
	if err := commands.Execute(); err != nil {
		if errors.Is(err, domain.ErrDeclined) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
