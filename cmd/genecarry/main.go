package main

import (
	"fmt"
	"os"

	"github.com/nds/ensembl-genomio/internal/cli"
)

func main() {
	err := cli.Execute()
	if err != nil && !cli.IsHelp(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
