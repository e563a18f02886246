package main

import (
	"os"

	"github.com/penwyp/go-mapps-cosmo/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
