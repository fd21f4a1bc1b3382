package main

import (
	"os"

	"benchlens/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
