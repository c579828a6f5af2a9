package main

import (
	"os"

	"github.com/grovetools/voice2doc/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
