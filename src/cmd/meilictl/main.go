package main

import (
	"os"

	"meilikit/src/pkg/cli"
)

var version = "0.1.0" // Will be set during build

func main() {
	os.Exit(cli.Execute(version))
}
