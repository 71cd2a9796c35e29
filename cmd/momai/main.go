package main

import (
	"os"

	"github.com/momai/momai/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
