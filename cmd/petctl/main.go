package main

import (
	"os"

	"pet-health-chat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
