package main

import (
	"os"

	"github.com/nxplus/nxplus/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
