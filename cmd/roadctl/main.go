package main

import (
	"fmt"
	"os"

	"github.com/fawkesdbs/roadguard/internal/client/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "roadctl:", err)
		os.Exit(1)
	}
}
