package main

import (
	"os"

	"github.com/example/wordbook/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
