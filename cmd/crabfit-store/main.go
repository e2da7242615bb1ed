package main

import (
	"fmt"
	"os"

	"crabfit/internal/cli"
)

func main() {
	if err := cli.Execute(cli.NewRootCommand()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
