package main

import (
	"os"

	"github.com/sundayezeilo/toolbench/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
