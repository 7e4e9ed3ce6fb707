package main

import (
	"fmt"
	"os"

	"incdeps/internal/ui/cli"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "incdeps:", err)
		os.Exit(1)
	}
}
