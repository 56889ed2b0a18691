package main

import (
	"os"

	"github.com/FACorreiaa/go-concierge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
