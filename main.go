package main

import (
	"os"

	"github.com/fluentive/speechscore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
