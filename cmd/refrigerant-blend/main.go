package main

import (
	"os"

	"github.com/iwvelando/refrigerant-blend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
