package main

import (
	"os"

	"github.com/voxley/voxley/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
