package main

import (
	"os"

	"github.com/Weichenleeeee123/AI-issues-finder/cmd/issuefinder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
