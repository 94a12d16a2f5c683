package main

import (
	"fmt"
	"os"

	"github.com/haskins/sparqline/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own diagnostics; surface the error once
		// more on stderr for scripts that only capture that stream.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
