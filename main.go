package main

import (
	"os"

	"solar-valuation/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
