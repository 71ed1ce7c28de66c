package main

import (
	"os"

	"Chance_bot_v1/cli"
)

func main() {
	os.Exit(cli.Execute())
}
