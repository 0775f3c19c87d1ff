package main

import (
	"os"

	"github.com/smartshop/shopctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
