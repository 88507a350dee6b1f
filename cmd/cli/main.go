package main

import (
	"os"

	"github.com/amanf244/mars4/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
