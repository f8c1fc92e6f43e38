// Package main is the entry point for the treasuryctl binary.
package main

import (
	"os"

	"github.com/NEAR-DevHub/treasury-membership/cmd/treasuryctl/cli"
)

func main() {
	os.Exit(cli.Execute())
}
