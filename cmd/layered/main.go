package main

import (
	"os"

	"layered/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
