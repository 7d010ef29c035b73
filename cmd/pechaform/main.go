package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dgallion1/pechaform/internal/cli"
)

// Set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	root := cli.NewRootCommand(Version)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
