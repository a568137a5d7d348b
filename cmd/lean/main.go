package main

import (
	"os"

	"github.com/nkaradzhov/lean/cmd/lean/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
