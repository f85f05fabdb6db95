package main

import (
	"os"

	"github.com/ariel-frischer/changelog-checker/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
