package main

import (
	"os"

	"github.com/rustyeddy/dcasim/cmd/dcasim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
