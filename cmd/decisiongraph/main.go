// Command decisiongraph validates, lints and replays decision logs.
package main

import (
	"os"

	"github.com/roach88/decisiongraph/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
