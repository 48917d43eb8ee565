package main

import (
	"os"

	"github.com/opensubtitles/langcompat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
