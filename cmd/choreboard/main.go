package main

import (
	"os"

	"github.com/dukerupert/choreboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
